package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"storefront/internal/client"
	"storefront/internal/models"
	"storefront/internal/state"
	"storefront/pkg/money"
)

const usage = `usage: shopper <command> [args]

  register <email> <password> <first> <last>
  login <email> <password>
  logout
  whoami
  categories
  products [category-id]
  cart
  add <product-id> <quantity>
  set <item-id> <quantity>
  remove <item-id>
  empty
  addresses
  add-address <line1> <city> <postal-code> <country>
  checkout <address-id>
  orders`

var errUsage = errors.New(usage)

type shopperAPI interface {
	state.AuthAPI
	state.CartAPI
	Categories(ctx context.Context) ([]models.Category, error)
	Products(ctx context.Context, categoryID int) ([]models.Product, error)
	Product(ctx context.Context, id int) (*models.Product, error)
	Addresses(ctx context.Context) ([]models.Address, error)
	CreateAddress(ctx context.Context, address models.Address) (*models.Address, error)
	Orders(ctx context.Context) ([]models.Order, error)
}

type shopper struct {
	api  shopperAPI
	auth *state.Auth
	cart *state.Cart
	lang string
	out  io.Writer
}

func newShopper(cache state.SessionStore, api shopperAPI, lang string, out io.Writer) *shopper {
	auth := state.NewAuth(cache, api)
	return &shopper{
		api:  api,
		auth: auth,
		cart: state.NewCart(auth, api),
		lang: lang,
		out:  out,
	}
}

func (s *shopper) close() {
	s.cart.Close()
}

// run restores the stored session and executes one command.
func (s *shopper) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	s.auth.Restore()

	cmd, args := args[0], args[1:]
	switch cmd {
	case "register":
		if len(args) != 4 {
			return errUsage
		}
		user, err := s.auth.Register(ctx, client.RegisterRequest{
			Email: args[0], Password: args[1], FirstName: args[2], LastName: args[3],
		})
		if err != nil {
			return s.fail(err, client.OpRegister)
		}
		fmt.Fprintf(s.out, "Registered %s (id %d)\n", user.Email, user.ID)

	case "login":
		if len(args) != 2 {
			return errUsage
		}
		if err := s.auth.Login(ctx, args[0], args[1]); err != nil {
			return s.fail(err, client.OpLogin)
		}
		fmt.Fprintf(s.out, "Signed in as %s\n", s.auth.Profile().Email)

	case "logout":
		s.auth.SignOut()
		fmt.Fprintln(s.out, "Signed out")

	case "whoami":
		profile := s.auth.Profile()
		if profile == nil {
			return s.fail(state.ErrNotAuthenticated, client.OpGeneric)
		}
		fmt.Fprintf(s.out, "%s (id %d)\n", profile.Email, profile.Sub)

	case "categories":
		categories, err := s.api.Categories(ctx)
		if err != nil {
			return s.fail(err, client.OpGeneric)
		}
		w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
		for _, c := range categories {
			fmt.Fprintf(w, "%d\t%s\n", c.ID, c.Name)
		}
		return w.Flush()

	case "products":
		categoryID := 0
		if len(args) > 0 {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return errUsage
			}
			categoryID = id
		}
		products, err := s.api.Products(ctx, categoryID)
		if err != nil {
			return s.fail(err, client.OpGeneric)
		}
		w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
		for _, p := range products {
			stock := "-"
			if p.StockQuantity != nil {
				stock = strconv.Itoa(*p.StockQuantity)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, p.Name, money.Format(p.Price), stock)
		}
		return w.Flush()

	case "cart":
		if !s.auth.IsAuthenticated() {
			return s.fail(state.ErrNotAuthenticated, client.OpGeneric)
		}
		return s.printCart()

	case "add":
		ids, err := ints(args, 2)
		if err != nil {
			return err
		}
		product, err := s.api.Product(ctx, ids[0])
		if err != nil {
			return s.fail(err, client.OpGeneric)
		}
		if err := s.cart.AddToCart(ctx, *product, ids[1]); err != nil {
			return s.fail(err, client.OpGeneric)
		}
		return s.printCart()

	case "set":
		ids, err := ints(args, 2)
		if err != nil {
			return err
		}
		if err := s.cart.UpdateQuantity(ctx, ids[0], ids[1]); err != nil {
			return s.fail(err, client.OpGeneric)
		}
		return s.printCart()

	case "remove":
		ids, err := ints(args, 1)
		if err != nil {
			return err
		}
		if err := s.cart.RemoveFromCart(ctx, ids[0]); err != nil {
			return s.fail(err, client.OpGeneric)
		}
		return s.printCart()

	case "empty":
		if err := s.cart.EmptyCart(ctx); err != nil {
			return s.fail(err, client.OpGeneric)
		}
		return s.printCart()

	case "addresses":
		if !s.auth.IsAuthenticated() {
			return s.fail(state.ErrNotAuthenticated, client.OpGeneric)
		}
		addresses, err := s.api.Addresses(ctx)
		if err != nil {
			return s.fail(err, client.OpGeneric)
		}
		for _, a := range addresses {
			marker := ""
			if a.IsDefault {
				marker = " *"
			}
			fmt.Fprintf(s.out, "%d  %s, %s %s, %s%s\n", a.ID, a.AddressLine1, a.PostalCode, a.City, a.Country, marker)
		}

	case "add-address":
		if len(args) != 4 {
			return errUsage
		}
		if !s.auth.IsAuthenticated() {
			return s.fail(state.ErrNotAuthenticated, client.OpGeneric)
		}
		address, err := s.api.CreateAddress(ctx, models.Address{
			AddressLine1: args[0], City: args[1], PostalCode: args[2], Country: args[3],
		})
		if err != nil {
			return s.fail(err, client.OpGeneric)
		}
		fmt.Fprintf(s.out, "Address %d saved\n", address.ID)

	case "checkout":
		ids, err := ints(args, 1)
		if err != nil {
			return err
		}
		order, err := s.cart.Checkout(ctx, ids[0])
		if err != nil {
			return s.fail(err, client.OpCheckout)
		}
		fmt.Fprintf(s.out, "Order %s placed: %s (%s)\n", order.OrderNumber, money.Format(order.TotalAmount), order.Status)

	case "orders":
		if !s.auth.IsAuthenticated() {
			return s.fail(state.ErrNotAuthenticated, client.OpGeneric)
		}
		orders, err := s.api.Orders(ctx)
		if err != nil {
			return s.fail(err, client.OpGeneric)
		}
		w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
		for _, o := range orders {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d items\n", o.OrderNumber, o.Status, money.Format(o.TotalAmount), len(o.Items))
		}
		return w.Flush()

	default:
		return errUsage
	}
	return nil
}

func (s *shopper) printCart() error {
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for _, it := range s.cart.Items() {
		name := fmt.Sprintf("product %d", it.ProductID)
		if it.Product != nil {
			name = it.Product.Name
		}
		fmt.Fprintf(w, "%d\t%s\t%d x %s\t%s\n", it.ID, name, it.Quantity, money.Format(it.UnitPrice), money.Format(it.LineTotal()))
	}
	fmt.Fprintf(w, "\t%d items\t\t%s\n", s.cart.ItemCount(), money.Format(s.cart.Subtotal()))
	return w.Flush()
}

var signInFirst = map[string]string{
	client.LangES: "Inicia sesión para continuar.",
	client.LangEN: "Please sign in to continue.",
}

// fail turns err into the message shown to the user.
func (s *shopper) fail(err error, op client.Op) error {
	if errors.Is(err, state.ErrNotAuthenticated) {
		if msg, ok := signInFirst[s.lang]; ok {
			return errors.New(msg)
		}
		return errors.New(signInFirst[client.LangES])
	}
	return errors.New(client.UserMessage(err, op, s.lang))
}

// ints parses exactly n non-negative integer arguments.
func ints(args []string, n int) ([]int, error) {
	if len(args) != n {
		return nil, errUsage
	}
	out := make([]int, n)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil || v < 0 {
			return nil, errUsage
		}
		out[i] = v
	}
	return out, nil
}
