package listingclient

import (
	"net/url"
	"sync"
)

// AddressBar - абстракция адресной строки браузера. Координатор заменяет
// текущую запись (без добавления в историю), чтобы ссылку можно было
// скопировать или перезагрузить в любой момент.
type AddressBar interface {
	Current() url.Values
	Replace(values url.Values)
}

// MemoryAddressBar - адресная строка в памяти для CLI и тестов.
type MemoryAddressBar struct {
	mu     sync.Mutex
	values url.Values
}

func NewMemoryAddressBar(initial url.Values) *MemoryAddressBar {
	bar := &MemoryAddressBar{values: url.Values{}}
	if initial != nil {
		bar.values = copyValues(initial)
	}
	return bar
}

func (b *MemoryAddressBar) Current() url.Values {
	b.mu.Lock()
	defer b.mu.Unlock()
	return copyValues(b.values)
}

func (b *MemoryAddressBar) Replace(values url.Values) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values = copyValues(values)
}

func copyValues(values url.Values) url.Values {
	copied := url.Values{}
	for key, vals := range values {
		copied[key] = append([]string(nil), vals...)
	}
	return copied
}
