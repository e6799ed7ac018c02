package listingclient

import (
	"context"
	"errors"
	"sync"
)

// FetchFailedMessage - сообщение для пользователя при неудачной загрузке списка.
const FetchFailedMessage = "Failed to load apartments. Please try again."

// ListingFetcher выполняет запрос одной страницы списка. Реализуется Client'ом.
type ListingFetcher interface {
	FetchListings(ctx context.Context, query Query) (*ListingsPage, error)
}

// State - наблюдаемое состояние списка. Подписчик получает его снапшотами.
// Apartments, Pagination и CurrentPage обновляются только результатом
// последнего выданного запроса; до этого сохраняются предыдущие данные.
type State struct {
	Apartments  []Apartment
	Pagination  *PaginationInfo
	CurrentPage int
	Search      string
	Loading     bool
	ErrMessage  string
}

// Coordinator владеет параметрами запроса списка и жизненным циклом
// запросов к API. Новый запрос отменяет предыдущий незавершенный; результат
// отмененного запроса никогда не попадает в состояние.
type Coordinator struct {
	fetcher ListingFetcher
	address AddressBar
	logger  Logger

	mu             sync.Mutex
	onChange       func(State)
	fetchSeq       uint64
	cancelInFlight context.CancelFunc
	query          Query
	state          State
}

// NewCoordinator - конструктор. Нулевой логгер заменяется заглушкой.
func NewCoordinator(fetcher ListingFetcher, address AddressBar, logger Logger) (*Coordinator, error) {
	if fetcher == nil {
		return nil, errors.New("listing fetcher is required")
	}
	if address == nil {
		return nil, errors.New("address bar is required")
	}
	if logger == nil {
		logger = NewNoopLogger()
	}
	return &Coordinator{
		fetcher: fetcher,
		address: address,
		logger:  logger,
		query:   Query{Page: DefaultPage, Limit: DefaultLimit},
	}, nil
}

// OnChange регистрирует подписчика на изменения состояния.
func (c *Coordinator) OnChange(fn func(State)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// State возвращает снапшот текущего состояния.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Initialize читает page, limit и search из адресной строки и выдает
// ровно один запрос по этим значениям. Поддерживает ссылки-закладки.
func (c *Coordinator) Initialize(ctx context.Context) {
	query := ParseQuery(c.address.Current())

	c.mu.Lock()
	snapshot, start := c.fetchLocked(ctx, query)
	c.mu.Unlock()

	c.notify(snapshot)
	start()
}

// GoToPage переходит на страницу. Выход за известные границы игнорируется:
// состояние не меняется и запрос не выдается.
func (c *Coordinator) GoToPage(ctx context.Context, page int) {
	c.mu.Lock()
	if page < 1 {
		c.mu.Unlock()
		c.logger.Debug("Ignoring switch to invalid page", "page", page)
		return
	}
	if c.state.Pagination != nil && page > c.state.Pagination.TotalPages {
		c.mu.Unlock()
		c.logger.Debug("Ignoring switch beyond last page",
			"page", page, "total_pages", c.state.Pagination.TotalPages)
		return
	}

	query := c.query
	query.Page = page
	snapshot, start := c.fetchLocked(ctx, query)
	c.mu.Unlock()

	c.notify(snapshot)
	start()
}

// SubmitSearch задает строку поиска. Новый поиск всегда начинается с первой страницы.
func (c *Coordinator) SubmitSearch(ctx context.Context, text string) {
	c.mu.Lock()
	query := c.query
	query.Search = text
	query.Page = 1
	snapshot, start := c.fetchLocked(ctx, query)
	c.mu.Unlock()

	c.notify(snapshot)
	start()
}

// ClearSearch сбрасывает поиск.
func (c *Coordinator) ClearSearch(ctx context.Context) {
	c.SubmitSearch(ctx, "")
}

// fetchLocked выдает новый запрос. Вызывается строго под мьютексом;
// возвращает снапшот для уведомления подписчика и функцию запуска
// самого запроса. Подписчик уведомляется о начале загрузки до того,
// как запрос сможет завершиться, поэтому порядок снапшотов стабилен.
func (c *Coordinator) fetchLocked(ctx context.Context, query Query) (State, func()) {
	// Отменяем незавершенный предыдущий запрос.
	if c.cancelInFlight != nil {
		c.cancelInFlight()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancelInFlight = cancel
	c.fetchSeq++
	seq := c.fetchSeq

	c.query = query
	c.state.Search = query.Search
	c.state.Loading = true
	c.state.ErrMessage = ""

	// Адресная строка заменяется в момент выдачи запроса, а не по его
	// завершении: скопированная ссылка воспроизводит запрошенное состояние.
	c.address.Replace(query.Values())

	start := func() {
		go c.runFetch(fetchCtx, cancel, seq, query)
	}
	return c.snapshotLocked(), start
}

func (c *Coordinator) runFetch(ctx context.Context, cancel context.CancelFunc, seq uint64, query Query) {
	defer cancel()

	c.logger.Debug("Fetch started", "seq", seq, "page", query.Page, "search", query.Search)
	page, err := c.fetcher.FetchListings(ctx, query)

	c.mu.Lock()
	if seq != c.fetchSeq {
		c.mu.Unlock()
		// Запрос перекрыт более новым: результат молча отбрасывается.
		c.logger.Debug("Dropping stale fetch result", "seq", seq)
		return
	}

	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			c.mu.Unlock()
			c.logger.Debug("Fetch cancelled", "seq", seq)
			return
		}
		// Настоящая ошибка: показываем сообщение, но прежние данные не трогаем.
		c.state.Loading = false
		c.state.ErrMessage = FetchFailedMessage
		snapshot := c.snapshotLocked()
		c.mu.Unlock()

		c.logger.Error(err, "Failed to fetch listings", "seq", seq, "page", query.Page, "search", query.Search)
		c.notify(snapshot)
		return
	}

	c.state.Apartments = page.Apartments
	pagination := page.Pagination
	c.state.Pagination = &pagination
	c.state.CurrentPage = pagination.CurrentPage
	c.state.Loading = false
	c.state.ErrMessage = ""
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Debug("Fetch finished", "seq", seq, "items_on_page", len(page.Apartments))
	c.notify(snapshot)
}

func (c *Coordinator) snapshotLocked() State {
	snapshot := c.state
	snapshot.Apartments = append([]Apartment(nil), c.state.Apartments...)
	if c.state.Pagination != nil {
		pagination := *c.state.Pagination
		snapshot.Pagination = &pagination
	}
	return snapshot
}

func (c *Coordinator) notify(state State) {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(state)
	}
}
