package service

import (
	"context"
	"io"

	"github.com/shopspring/decimal"

	"pizza-store/internal/domain"
	"pizza-store/internal/logger"
	"pizza-store/internal/repository"
)

func testLogger() *logger.Logger {
	return logger.NewTo("test", io.Discard)
}

// --- stores ---

type fakeStores struct {
	ids map[int]bool
	err error
}

func (f *fakeStores) List(ctx context.Context) ([]domain.Store, error) { return nil, f.err }

func (f *fakeStores) Exists(ctx context.Context, storeID int) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.ids[storeID], nil
}

// --- items ---

type fakeItems struct {
	items map[string]domain.Item

	inserted []domain.Item
	updated  []domain.Item
}

func (f *fakeItems) GetByName(ctx context.Context, name string) (domain.Item, error) {
	it, ok := f.items[name]
	if !ok {
		return domain.Item{}, domain.ErrItemNotFound
	}
	return it, nil
}

func (f *fakeItems) List(ctx context.Context, _ repository.ItemFilter) ([]domain.Item, error) {
	var out []domain.Item
	for _, it := range f.items {
		out = append(out, it)
	}
	return out, nil
}

func (f *fakeItems) Insert(ctx context.Context, it domain.Item) error {
	f.inserted = append(f.inserted, it)
	return nil
}

func (f *fakeItems) Update(ctx context.Context, it domain.Item) error {
	if _, ok := f.items[it.ItemName]; !ok {
		return domain.ErrItemNotFound
	}
	f.updated = append(f.updated, it)
	return nil
}

// --- orders ---

type fakeOrders struct {
	maxID int64
	menu  map[string]domain.Item

	headers   []domain.Order
	committed map[int64][]domain.OrderLine
	totals    map[int64]decimal.Decimal
	statuses  map[int64]string

	beginErr    error
	addLineErr  error
	finalizeErr error
	rollbacks   int
}

func newFakeOrders(maxID int64) *fakeOrders {
	return &fakeOrders{
		maxID:     maxID,
		menu:      map[string]domain.Item{},
		committed: map[int64][]domain.OrderLine{},
		totals:    map[int64]decimal.Decimal{},
		statuses:  map[int64]string{},
	}
}

func (f *fakeOrders) MaxOrderID(ctx context.Context) (int64, error) { return f.maxID, nil }

func (f *fakeOrders) Begin(ctx context.Context, header domain.Order) (repository.OrderTx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return &fakeOrderTx{repo: f, header: header}, nil
}

func (f *fakeOrders) Get(ctx context.Context, orderID int64) (domain.Order, error) {
	for _, h := range f.headers {
		if h.OrderID == orderID {
			h.TotalPrice = f.totals[orderID]
			if st, ok := f.statuses[orderID]; ok {
				h.Status = st
			}
			return h, nil
		}
	}
	return domain.Order{}, domain.ErrOrderNotFound
}

func (f *fakeOrders) Lines(ctx context.Context, orderID int64) ([]domain.OrderLine, error) {
	return f.committed[orderID], nil
}

func (f *fakeOrders) IDsByLogin(ctx context.Context, login string) ([]int64, error) {
	var out []int64
	for _, h := range f.headers {
		if h.Login == login {
			out = append(out, h.OrderID)
		}
	}
	return out, nil
}

func (f *fakeOrders) AllIDs(ctx context.Context) ([]int64, error) {
	var out []int64
	for _, h := range f.headers {
		out = append(out, h.OrderID)
	}
	return out, nil
}

func (f *fakeOrders) RecentIDs(ctx context.Context, login string, limit int) ([]int64, error) {
	ids, _ := f.IDsByLogin(ctx, login)
	if len(ids) > limit {
		ids = ids[len(ids)-limit:]
	}
	return ids, nil
}

func (f *fakeOrders) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	if _, err := f.Get(ctx, orderID); err != nil {
		return err
	}
	f.statuses[orderID] = status
	return nil
}

type fakeOrderTx struct {
	repo   *fakeOrders
	header domain.Order
	lines  []domain.OrderLine
}

func (t *fakeOrderTx) GetItem(ctx context.Context, name string) (domain.Item, error) {
	it, ok := t.repo.menu[name]
	if !ok {
		return domain.Item{}, domain.ErrItemNotFound
	}
	return it, nil
}

func (t *fakeOrderTx) AddLine(ctx context.Context, itemName string, quantity int) error {
	if t.repo.addLineErr != nil {
		return t.repo.addLineErr
	}
	for i := range t.lines {
		if t.lines[i].ItemName == itemName {
			t.lines[i].Quantity += quantity
			return nil
		}
	}
	t.lines = append(t.lines, domain.OrderLine{OrderID: t.header.OrderID, ItemName: itemName, Quantity: quantity})
	return nil
}

func (t *fakeOrderTx) Finalize(ctx context.Context, total decimal.Decimal) error {
	if t.repo.finalizeErr != nil {
		return t.repo.finalizeErr
	}
	t.repo.headers = append(t.repo.headers, t.header)
	t.repo.committed[t.header.OrderID] = t.lines
	t.repo.totals[t.header.OrderID] = total
	t.repo.statuses[t.header.OrderID] = t.header.Status
	return nil
}

func (t *fakeOrderTx) Rollback() error {
	t.repo.rollbacks++
	return nil
}

// --- users ---

type fakeUsers struct {
	users   map[string]domain.User
	roleErr error
}

func (f *fakeUsers) Create(ctx context.Context, u domain.User) error {
	if _, ok := f.users[u.Login]; ok {
		return domain.ErrLoginTaken
	}
	f.users[u.Login] = u
	return nil
}

func (f *fakeUsers) GetByLogin(ctx context.Context, login string) (domain.User, error) {
	u, ok := f.users[login]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetRole(ctx context.Context, login string) (domain.Role, error) {
	if f.roleErr != nil {
		return domain.RoleUnknown, f.roleErr
	}
	u, ok := f.users[login]
	if !ok {
		return domain.RoleUnknown, domain.ErrUserNotFound
	}
	return u.Role, nil
}

func (f *fakeUsers) UpdatePassword(ctx context.Context, login, password string) error {
	return f.mutate(login, func(u *domain.User) { u.Password = password })
}

func (f *fakeUsers) UpdatePhone(ctx context.Context, login, phone string) error {
	return f.mutate(login, func(u *domain.User) { u.PhoneNum = phone })
}

func (f *fakeUsers) UpdateFavorites(ctx context.Context, login, favorites string) error {
	return f.mutate(login, func(u *domain.User) { u.FavoriteItems = favorites })
}

func (f *fakeUsers) UpdateRole(ctx context.Context, login string, role domain.Role) error {
	return f.mutate(login, func(u *domain.User) { u.Role = role })
}

func (f *fakeUsers) UpdateLogin(ctx context.Context, oldLogin, newLogin string) error {
	u, ok := f.users[oldLogin]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(f.users, oldLogin)
	u.Login = newLogin
	f.users[newLogin] = u
	return nil
}

func (f *fakeUsers) mutate(login string, fn func(*domain.User)) error {
	u, ok := f.users[login]
	if !ok {
		return domain.ErrUserNotFound
	}
	fn(&u)
	f.users[login] = u
	return nil
}

// --- events ---

type recordingPublisher struct {
	placed   []domain.Order
	statuses []string
	err      error
}

func (p *recordingPublisher) OrderPlaced(ctx context.Context, o domain.Order, lines []domain.OrderLine) error {
	if p.err != nil {
		return p.err
	}
	p.placed = append(p.placed, o)
	return nil
}

func (p *recordingPublisher) OrderStatusChanged(ctx context.Context, orderID int64, status string) error {
	if p.err != nil {
		return p.err
	}
	p.statuses = append(p.statuses, status)
	return nil
}

// --- cache ---

type fakeCache struct {
	data        map[string][]domain.Item
	invalidated int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]domain.Item{}}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]domain.Item, bool) {
	items, ok := c.data[key]
	return items, ok
}

func (c *fakeCache) Set(ctx context.Context, key string, items []domain.Item) {
	c.data[key] = items
}

func (c *fakeCache) Invalidate(ctx context.Context) {
	c.invalidated++
	c.data = map[string][]domain.Item{}
}

// --- line item source ---

// scriptedSource feeds a fixed request list into the placement loop and
// records rejections. Setting breakErr makes NextItem fail once breakAt
// requests have been served, like a dropped input stream.
type scriptedSource struct {
	reqs []struct {
		name string
		qty  int
	}
	pos      int
	cur      int
	rejected map[string]error

	breakAt  int
	breakErr error
}

func newScriptedSource(reqs ...[2]any) *scriptedSource {
	s := &scriptedSource{rejected: map[string]error{}}
	for _, r := range reqs {
		s.reqs = append(s.reqs, struct {
			name string
			qty  int
		}{r[0].(string), r[1].(int)})
	}
	return s
}

func (s *scriptedSource) NextItem() (string, bool, error) {
	if s.breakErr != nil && s.pos >= s.breakAt {
		return "", false, s.breakErr
	}
	if s.pos >= len(s.reqs) {
		return "", false, nil
	}
	s.cur = s.pos
	s.pos++
	return s.reqs[s.cur].name, true, nil
}

func (s *scriptedSource) Quantity(item domain.Item) (int, bool) {
	return s.reqs[s.cur].qty, true
}

func (s *scriptedSource) Reject(name string, reason error) {
	s.rejected[name] = reason
}
