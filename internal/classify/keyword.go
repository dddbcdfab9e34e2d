package classify

import "strings"

// KeywordClassifier — запасной классификатор активности по тексту с экрана:
// метка по наибольшему числу совпадений ключевых слов («мешок слов»).
type KeywordClassifier struct {
	sets    []keywordSet
	minHits int
}

// keywordSet — набор слов одной метки. Наборы хранятся срезом, а не map:
// при равенстве совпадений побеждает более ранний набор, и один и тот же
// текст всегда классифицируется одинаково.
type keywordSet struct {
	label Label
	words []string
}

// NewKeywordClassifier создаёт классификатор. minHits — минимум совпадений,
// ниже которого результат считается неопределённым.
func NewKeywordClassifier(study, code, game []string, minHits int) *KeywordClassifier {
	if minHits <= 0 {
		minHits = 2
	}
	return &KeywordClassifier{
		sets: []keywordSet{
			{label: LabelStudying, words: study},
			{label: LabelCoding, words: code},
			{label: LabelGaming, words: game},
		},
		minHits: minHits,
	}
}

// Classify подсчитывает совпадения по каждому набору и возвращает лучшую метку.
// Уверенность — доля совпадений лучшей метки среди всех совпадений.
func (k *KeywordClassifier) Classify(text string) (Label, float64) {
	lowered := strings.ToLower(text)

	best := LabelUnknown
	bestHits := 0
	totalHits := 0
	for _, set := range k.sets {
		hits := 0
		for _, w := range set.words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w == "" {
				continue
			}
			hits += strings.Count(lowered, w)
		}
		totalHits += hits
		if hits > bestHits {
			bestHits = hits
			best = set.label
		}
	}

	if bestHits < k.minHits {
		return LabelUnknown, 0
	}
	return best, float64(bestHits) / float64(totalHits)
}
