package domain

// QueryPair - одна пара ключ/значение адресной строки.
type QueryPair struct {
	Key   string
	Value string
}

// QueryPairs - упорядоченный мультимап параметров адреса. Порядок и повторы ключей значимы.
type QueryPairs []QueryPair

// Get возвращает первое значение ключа.
func (q QueryPairs) Get(key string) (string, bool) {
	for _, p := range q {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// GetAll возвращает все значения ключа в порядке появления.
func (q QueryPairs) GetAll(key string) []string {
	var out []string
	for _, p := range q {
		if p.Key == key {
			out = append(out, p.Value)
		}
	}
	return out
}
