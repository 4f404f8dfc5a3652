package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"pizza-store/internal/domain"
	"pizza-store/internal/logger"
	"pizza-store/internal/repository"
	"pizza-store/internal/service"
)

// Session is one interactive run of the storefront console.
type Session struct {
	svc *service.Service
	in  *bufio.Reader
	out io.Writer
	lg  *logger.Logger
}

func New(svc *service.Service, in io.Reader, out io.Writer, lg *logger.Logger) *Session {
	return &Session{svc: svc, in: bufio.NewReader(in), out: out, lg: lg}
}

// Run drives the outer auth menu until the user exits or input ends.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "*******************************************************")
	fmt.Fprintln(s.out, "                 Pizza Store Console")
	fmt.Fprintln(s.out, "*******************************************************")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprintln(s.out, "\nMAIN MENU")
		fmt.Fprintln(s.out, "---------")
		fmt.Fprintln(s.out, "1. Create user")
		fmt.Fprintln(s.out, "2. Log in")
		fmt.Fprintln(s.out, "9. < EXIT")

		choice, err := readChoice(s.in, s.out)
		if err != nil {
			return s.finish(err)
		}
		switch choice {
		case 1:
			s.createUser(ctx)
		case 2:
			login, err := s.logIn(ctx)
			if err != nil {
				return s.finish(err)
			}
			if login != "" {
				if err := s.userMenu(ctx, login); err != nil {
					return s.finish(err)
				}
			}
		case 9:
			return s.finish(nil)
		default:
			fmt.Fprintln(s.out, "Unrecognized choice!")
		}
	}
}

// finish swallows the EOF that ends a piped session; the farewell prints on
// every path.
func (s *Session) finish(err error) error {
	fmt.Fprintln(s.out, "\nBye!")
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Session) createUser(ctx context.Context) {
	login, err := readLine(s.in, s.out, "Enter username: ")
	if err != nil {
		return
	}
	password, err := readLine(s.in, s.out, "Enter password: ")
	if err != nil {
		return
	}
	phone, err := readLine(s.in, s.out, "Enter phone number: ")
	if err != nil {
		return
	}
	if err := s.svc.Users.Register(ctx, login, password, phone); err != nil {
		fmt.Fprintf(s.out, "Could not create user: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "User created, you can log in now.")
}

func (s *Session) logIn(ctx context.Context) (string, error) {
	login, err := readLine(s.in, s.out, "Enter username: ")
	if err != nil {
		return "", err
	}
	password, err := readLine(s.in, s.out, "Enter password: ")
	if err != nil {
		return "", err
	}
	authed, err := s.svc.Users.Login(ctx, login, password)
	if errors.Is(err, domain.ErrBadCredentials) {
		fmt.Fprintln(s.out, "Login and password do not match.")
		return "", nil
	}
	if err != nil {
		fmt.Fprintf(s.out, "Login failed: %v\n", err)
		return "", nil
	}
	fmt.Fprintf(s.out, "Welcome, %s!\n", authed)
	return authed, nil
}

func (s *Session) userMenu(ctx context.Context, login string) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprintln(s.out, "\nMAIN MENU")
		fmt.Fprintln(s.out, "---------")
		fmt.Fprintln(s.out, "1. View Profile")
		fmt.Fprintln(s.out, "2. Update Profile")
		fmt.Fprintln(s.out, "3. View Menu")
		fmt.Fprintln(s.out, "4. Place Order")
		fmt.Fprintln(s.out, "5. View Full Order ID History")
		fmt.Fprintln(s.out, "6. View Past 5 Order IDs")
		fmt.Fprintln(s.out, "7. View Order Information")
		fmt.Fprintln(s.out, "8. View Stores")
		fmt.Fprintln(s.out, "9. Update Order Status (drivers, managers)")
		fmt.Fprintln(s.out, "10. Update Menu (managers)")
		fmt.Fprintln(s.out, "11. Update User (managers)")
		fmt.Fprintln(s.out, ".........................")
		fmt.Fprintln(s.out, "20. Log out")

		choice, err := readChoice(s.in, s.out)
		if err != nil {
			return err
		}
		switch choice {
		case 1:
			s.viewProfile(ctx, login)
		case 2:
			s.updateProfile(ctx, login)
		case 3:
			s.viewMenu(ctx)
		case 4:
			s.placeOrder(ctx, login)
		case 5:
			s.viewAllOrders(ctx, login)
		case 6:
			s.viewRecentOrders(ctx, login)
		case 7:
			s.viewOrderInfo(ctx, login)
		case 8:
			s.viewStores(ctx)
		case 9:
			s.updateOrderStatus(ctx, login)
		case 10:
			s.updateMenu(ctx, login)
		case 11:
			s.updateUser(ctx, login)
		case 20:
			return nil
		default:
			fmt.Fprintln(s.out, "Unrecognized choice!")
		}
	}
}

func (s *Session) viewProfile(ctx context.Context, login string) {
	u, err := s.svc.Users.Profile(ctx, login)
	if err != nil {
		fmt.Fprintf(s.out, "Could not load profile: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "\nProfile Info:\n\nLogin: %s\nRole: %s\nFavorite Items: %s\nPhone Number: %s\n",
		u.Login, u.Role, u.FavoriteItems, u.PhoneNum)
}

func (s *Session) updateProfile(ctx context.Context, login string) {
	fmt.Fprintln(s.out, "1. Change password")
	fmt.Fprintln(s.out, "2. Change phone number")
	fmt.Fprintln(s.out, "3. Change favorite items")
	choice, err := readChoice(s.in, s.out)
	if err != nil {
		return
	}
	var value string
	switch choice {
	case 1:
		if value, err = readLine(s.in, s.out, "New password: "); err == nil {
			err = s.svc.Users.UpdatePassword(ctx, login, value)
		}
	case 2:
		if value, err = readLine(s.in, s.out, "New phone number: "); err == nil {
			err = s.svc.Users.UpdatePhone(ctx, login, value)
		}
	case 3:
		if value, err = readLine(s.in, s.out, "Favorite items: "); err == nil {
			err = s.svc.Users.UpdateFavorites(ctx, login, value)
		}
	default:
		fmt.Fprintln(s.out, "Unrecognized choice!")
		return
	}
	if err != nil {
		fmt.Fprintf(s.out, "Update failed: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "Profile updated.")
}

func (s *Session) viewMenu(ctx context.Context) {
	typeOf, err := readLine(s.in, s.out, "Item type (empty for all): ")
	if err != nil {
		return
	}
	maxPrice, err := readOptionalMoney(s.in, s.out, "Price limit (empty for none): ")
	if err != nil {
		return
	}
	sort, err := readLine(s.in, s.out, "Sort by price asc/desc (empty for none): ")
	if err != nil {
		return
	}
	sort = strings.ToLower(sort)
	if sort != "" && sort != "asc" && sort != "desc" {
		fmt.Fprintln(s.out, "Unknown sort order, showing unsorted.")
		sort = ""
	}

	items, err := s.svc.Menu.View(ctx, repository.ItemFilter{
		TypeOfItem: typeOf,
		MaxPrice:   maxPrice,
		PriceSort:  sort,
	})
	if err != nil {
		fmt.Fprintf(s.out, "Could not load menu: %v\n", err)
		return
	}
	if len(items) == 0 {
		fmt.Fprintln(s.out, "No items match.")
		return
	}
	for _, it := range items {
		fmt.Fprintf(s.out, "Item: %s\nIngredients: %s\nType: %s\nPrice: $%s\nDescription: %s\n\n",
			it.ItemName, it.Ingredients, it.TypeOfItem, it.Price.StringFixed(2), it.Description)
	}
}

func (s *Session) placeOrder(ctx context.Context, login string) {
	storeID, err := readInt(s.in, s.out, "Store ID: ")
	if err != nil {
		return
	}
	receipt, err := s.svc.Orders.PlaceOrder(ctx, login, storeID, &interactiveLines{in: s.in, out: s.out})
	if errors.Is(err, domain.ErrStoreNotFound) {
		fmt.Fprintf(s.out, "Store %d does not exist.\n", storeID)
		return
	}
	if err != nil {
		fmt.Fprintf(s.out, "Order failed, nothing was saved: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Order %d placed. Total: $%s\n", receipt.OrderID, receipt.Total.StringFixed(2))
}

func (s *Session) viewAllOrders(ctx context.Context, login string) {
	ids, err := s.svc.Orders.OrderIDs(ctx, login)
	if err != nil {
		fmt.Fprintf(s.out, "Could not load orders: %v\n", err)
		return
	}
	s.printOrderIDs(ids)
}

func (s *Session) viewRecentOrders(ctx context.Context, login string) {
	ids, err := s.svc.Orders.RecentOrderIDs(ctx, login, 5)
	if err != nil {
		fmt.Fprintf(s.out, "Could not load orders: %v\n", err)
		return
	}
	s.printOrderIDs(ids)
}

func (s *Session) printOrderIDs(ids []int64) {
	if len(ids) == 0 {
		fmt.Fprintln(s.out, "No orders found.")
		return
	}
	for _, id := range ids {
		fmt.Fprintf(s.out, "Order %d\n", id)
	}
}

func (s *Session) viewOrderInfo(ctx context.Context, login string) {
	id, err := readInt(s.in, s.out, "Order ID to view: ")
	if err != nil {
		return
	}
	o, lines, err := s.svc.Orders.OrderInfo(ctx, login, int64(id))
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		fmt.Fprintln(s.out, "No such order.")
		return
	case errors.Is(err, domain.ErrNotAuthorized):
		fmt.Fprintln(s.out, "Order is not your own, please choose your own order.")
		return
	case err != nil:
		fmt.Fprintf(s.out, "Could not load order: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Order Time: %s\nTotal Price: $%s\nOrder Status: %s\n",
		o.OrderTime.Format("2006-01-02 15:04:05"), o.TotalPrice.StringFixed(2), o.Status)
	if len(lines) > 0 {
		fmt.Fprintln(s.out, "Items:")
		for _, l := range lines {
			fmt.Fprintf(s.out, "\tItem: %s, Quantity: %d\n", l.ItemName, l.Quantity)
		}
	}
}

func (s *Session) viewStores(ctx context.Context) {
	stores, err := s.svc.Stores.List(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "Could not load stores: %v\n", err)
		return
	}
	for _, st := range stores {
		open := "no"
		if st.IsOpen {
			open = "yes"
		}
		fmt.Fprintf(s.out, "StoreID: %d\nAddress: %s, %s, %s\nOpen: %s\nReview Score: %.1f\n\n",
			st.StoreID, st.Address, st.City, st.State, open, st.ReviewScore)
	}
}

func (s *Session) updateOrderStatus(ctx context.Context, login string) {
	id, err := readInt(s.in, s.out, "Order ID: ")
	if err != nil {
		return
	}
	status, err := readLine(s.in, s.out, "New status: ")
	if err != nil {
		return
	}
	err = s.svc.Orders.UpdateStatus(ctx, login, int64(id), status)
	switch {
	case errors.Is(err, domain.ErrNotAuthorized):
		fmt.Fprintln(s.out, "Only drivers and managers can update order status.")
	case errors.Is(err, domain.ErrOrderNotFound):
		fmt.Fprintln(s.out, "No such order.")
	case err != nil:
		fmt.Fprintf(s.out, "Update failed: %v\n", err)
	default:
		fmt.Fprintln(s.out, "Order status updated.")
	}
}

func (s *Session) updateMenu(ctx context.Context, login string) {
	fmt.Fprintln(s.out, "1. Add item")
	fmt.Fprintln(s.out, "2. Update item")
	choice, err := readChoice(s.in, s.out)
	if err != nil {
		return
	}
	if choice != 1 && choice != 2 {
		fmt.Fprintln(s.out, "Unrecognized choice!")
		return
	}

	it, err := s.promptItem()
	if err != nil {
		return
	}
	if choice == 1 {
		err = s.svc.Menu.AddItem(ctx, login, it)
	} else {
		err = s.svc.Menu.UpdateItem(ctx, login, it)
	}
	switch {
	case errors.Is(err, domain.ErrNotAuthorized):
		fmt.Fprintln(s.out, "Only managers can edit the menu.")
	case errors.Is(err, domain.ErrItemNotFound):
		fmt.Fprintln(s.out, "No such item to update.")
	case err != nil:
		fmt.Fprintf(s.out, "Menu edit failed: %v\n", err)
	default:
		fmt.Fprintln(s.out, "Menu updated.")
	}
}

func (s *Session) promptItem() (domain.Item, error) {
	var it domain.Item
	var err error
	if it.ItemName, err = readLine(s.in, s.out, "Item name: "); err != nil {
		return it, err
	}
	if it.Ingredients, err = readLine(s.in, s.out, "Ingredients: "); err != nil {
		return it, err
	}
	if it.TypeOfItem, err = readLine(s.in, s.out, "Type of item: "); err != nil {
		return it, err
	}
	if it.Price, err = readMoney(s.in, s.out, "Price: "); err != nil {
		return it, err
	}
	if it.Description, err = readLine(s.in, s.out, "Description: "); err != nil {
		return it, err
	}
	return it, nil
}

func (s *Session) updateUser(ctx context.Context, login string) {
	target, err := readLine(s.in, s.out, "User to update: ")
	if err != nil {
		return
	}
	fmt.Fprintln(s.out, "1. Change role")
	fmt.Fprintln(s.out, "2. Change login")
	choice, err := readChoice(s.in, s.out)
	if err != nil {
		return
	}
	switch choice {
	case 1:
		role, rerr := readLine(s.in, s.out, "New role (customer/driver/manager): ")
		if rerr != nil {
			return
		}
		err = s.svc.Users.UpdateUserRole(ctx, login, target, domain.Role(role))
	case 2:
		newLogin, rerr := readLine(s.in, s.out, "New login: ")
		if rerr != nil {
			return
		}
		err = s.svc.Users.UpdateUserLogin(ctx, login, target, newLogin)
	default:
		fmt.Fprintln(s.out, "Unrecognized choice!")
		return
	}
	switch {
	case errors.Is(err, domain.ErrNotAuthorized):
		fmt.Fprintln(s.out, "Only managers can edit users.")
	case errors.Is(err, domain.ErrUserNotFound):
		fmt.Fprintln(s.out, "No such user.")
	case err != nil:
		fmt.Fprintf(s.out, "Update failed: %v\n", err)
	default:
		fmt.Fprintln(s.out, "User updated.")
	}
}
