package domain

import "fmt"

// Vocabulary 品类白名单，为空时接受任意品类
type Vocabulary struct {
	allowed map[string]struct{}
}

func NewVocabulary(categories []string) *Vocabulary {
	v := &Vocabulary{allowed: make(map[string]struct{}, len(categories))}
	for _, c := range categories {
		if c != "" {
			v.allowed[c] = struct{}{}
		}
	}
	return v
}

// Check 品类不在白名单中时返回 ErrUnknownCategory
func (v *Vocabulary) Check(category string) error {
	if v == nil || len(v.allowed) == 0 {
		return nil
	}
	if _, ok := v.allowed[category]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return nil
}

// Known 是否属于白名单；白名单为空时恒为 true
func (v *Vocabulary) Known(category string) bool {
	return v.Check(category) == nil
}
