// Package shell is the line-oriented front end of the storefront.
//
// Each input line is split with shell quoting rules, so multi-word values
// such as a shipping address can be written as `address "1 Main St"` or
// simply `address 1 Main St`.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/shlex"
	"go.uber.org/zap"

	"github.com/xenking/kart-storefront/internal/api"
	"github.com/xenking/kart-storefront/internal/domain/order"
	"github.com/xenking/kart-storefront/internal/view"
)

// Store is the cart state the shell reads for its prompt.
type Store interface {
	view.CartStore
	ItemCount() int
	FetchCart(ctx context.Context) error
}

// Views groups the screens the shell navigates between.
type Views struct {
	Catalog  *view.Catalog
	Cart     *view.CartView
	Checkout *view.Checkout
	History  *view.OrderHistory
	Admin    *view.Admin
}

type command struct {
	usage string
	help  string
	run   func(ctx context.Context, args []string) error
}

// Shell reads commands from in and writes screens to out.
type Shell struct {
	in    io.Reader
	out   io.Writer
	store Store
	views Views
	lg    *zap.Logger

	commands map[string]command
	order    []string
}

// errQuit ends the loop.
var errQuit = errors.New("quit")

// notice is an error whose text is shown to the user as is.
type notice string

func (n notice) Error() string { return string(n) }

func noticef(format string, args ...any) notice {
	return notice(fmt.Sprintf(format, args...))
}

// New creates a Shell.
func New(in io.Reader, out io.Writer, st Store, views Views, lg *zap.Logger) *Shell {
	s := &Shell{in: in, out: out, store: st, views: views, lg: lg}
	s.register("help", "help", "Show this help", s.help)
	s.register("whoami", "whoami", "Show the session identity", s.whoami)
	s.register("products", "products", "List products", s.products)
	s.register("add", "add <id> [qty]", "Add a product to the cart", s.add)
	s.register("cart", "cart", "Show the cart", s.cart)
	s.register("inc", "inc <id>", "Increase the quantity of a cart item", s.inc)
	s.register("dec", "dec <id>", "Decrease the quantity of a cart item", s.dec)
	s.register("discount", "discount <code>", "Apply a discount code", s.discount)
	s.register("undiscount", "undiscount", "Remove the applied discount", s.undiscount)
	s.register("checkout", "checkout", "Show the checkout form", s.checkout)
	s.register("address", "address <text>", "Set the shipping address", s.address)
	s.register("payment", "payment <method>", "Set the payment method ("+paymentList()+")", s.payment)
	s.register("place", "place", "Place the order", s.place)
	s.register("done", "done", "Leave the order confirmation and keep shopping", s.done)
	s.register("orders", "orders", "Show your order history", s.orders)
	s.register("admin", "admin [generate | nth <n>]", "Admin dashboard and actions", s.admin)
	s.register("quit", "quit", "Exit", func(context.Context, []string) error { return errQuit })
	s.commands["exit"] = s.commands["quit"]
	return s
}

func (s *Shell) register(name, usage, help string, run func(ctx context.Context, args []string) error) {
	if s.commands == nil {
		s.commands = make(map[string]command)
	}
	s.commands[name] = command{usage: usage, help: help, run: run}
	s.order = append(s.order, name)
}

// Run fetches the cart once and then serves commands until quit, end of
// input or cancellation of ctx. Cancellation takes effect even while waiting
// for a line.
func (s *Shell) Run(ctx context.Context) error {
	if err := s.store.FetchCart(ctx); err != nil {
		s.printf("Could not load your cart: %s\n", describe(err))
	}
	s.printf("Welcome to the storefront. Type help for commands.\n")

	lines, readErr := s.readLines(ctx)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.printf("Cart (%d)> ", s.store.ItemCount())
		select {
		case <-ctx.Done():
			s.printf("\n")
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				s.printf("\n")
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := <-readErr; err != nil {
					return errors.Wrap(err, "read input")
				}
				return nil
			}
			if s.Exec(ctx, line) {
				return nil
			}
		}
	}
}

// readLines scans input in its own goroutine so that Run can stop on ctx
// while a read is pending. The goroutine ends with the input or with ctx.
// readErr receives exactly one value before lines is closed.
func (s *Shell) readLines(ctx context.Context) (lines <-chan string, readErr <-chan error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case out <- scanner.Text():
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		errc <- scanner.Err()
	}()
	return out, errc
}

// Exec runs a single input line and reports whether the user asked to quit.
// Command failures are written to the output.
func (s *Shell) Exec(ctx context.Context, line string) (quit bool) {
	args, err := shlex.Split(line)
	if err != nil {
		s.printf("Could not parse input: %v\n", err)
		return false
	}
	if len(args) == 0 {
		return false
	}
	cmd, ok := s.commands[strings.ToLower(args[0])]
	if !ok {
		s.printf("Unknown command %q. Type help for a list.\n", args[0])
		return false
	}
	if err := cmd.run(ctx, args[1:]); err != nil {
		if errors.Is(err, errQuit) {
			return true
		}
		s.lg.Debug("Command failed", zap.String("command", args[0]), zap.Error(err))
		s.printf("%s\n", describe(err))
	}
	return false
}

func (s *Shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) render(r interface{ Render(io.Writer) error }) error {
	return r.Render(s.out)
}

func (s *Shell) help(context.Context, []string) error {
	for _, name := range s.order {
		c := s.commands[name]
		s.printf("  %-28s %s\n", c.usage, c.help)
	}
	return nil
}

func (s *Shell) whoami(context.Context, []string) error {
	sess := s.store.Session()
	s.printf("User: %s (%s)\n", sess.ID, sess.Short())
	return nil
}

func (s *Shell) products(ctx context.Context, _ []string) error {
	if !s.views.Catalog.Loaded() {
		if err := s.views.Catalog.Load(ctx); err != nil {
			s.printf("Could not load products: %s\n", describe(err))
		}
	}
	return s.render(s.views.Catalog)
}

func (s *Shell) add(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usageError("add <id> [qty]")
	}
	qty := 1
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return notice("Quantity must be a positive number")
		}
		qty = n
	}
	if err := s.views.Catalog.AddQuantity(ctx, args[0], qty); err != nil {
		return err
	}
	s.printf("Added to cart.\n")
	return nil
}

func (s *Shell) cart(context.Context, []string) error {
	return s.render(s.views.Cart)
}

func (s *Shell) inc(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("inc <id>")
	}
	if err := s.views.Cart.Increment(ctx, args[0]); err != nil {
		return err
	}
	return s.render(s.views.Cart)
}

func (s *Shell) dec(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("dec <id>")
	}
	if err := s.views.Cart.Decrement(ctx, args[0]); err != nil {
		return err
	}
	return s.render(s.views.Cart)
}

func (s *Shell) discount(ctx context.Context, args []string) error {
	s.views.Cart.SetDiscountInput(strings.Join(args, " "))
	msg, err := s.views.Cart.ApplyDiscount(ctx)
	s.printf("%s\n", msg)
	if err == nil {
		return s.render(s.views.Cart)
	}
	return nil
}

func (s *Shell) undiscount(ctx context.Context, _ []string) error {
	msg, _ := s.views.Cart.RemoveDiscount(ctx)
	s.printf("%s\n", msg)
	return nil
}

func (s *Shell) checkout(context.Context, []string) error {
	return s.render(s.views.Checkout)
}

func (s *Shell) address(_ context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("address <text>")
	}
	s.views.Checkout.SetAddress(strings.Join(args, " "))
	s.printf("Shipping address set.\n")
	return nil
}

func (s *Shell) payment(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("payment <" + paymentList() + ">")
	}
	if err := s.views.Checkout.SetPayment(args[0]); err != nil {
		return noticef("Unknown payment method %q, choose one of %s", args[0], paymentList())
	}
	s.printf("Payment method: %s\n", s.views.Checkout.Payment().Label())
	return nil
}

func (s *Shell) place(ctx context.Context, _ []string) error {
	if _, err := s.views.Checkout.Submit(ctx); err != nil {
		if msg := s.views.Checkout.Message(); msg != "" {
			return notice(msg)
		}
		return err
	}
	return s.render(s.views.Checkout)
}

func (s *Shell) done(context.Context, []string) error {
	s.views.Checkout.Reset()
	s.printf("Continue shopping: type products to browse.\n")
	return nil
}

func (s *Shell) orders(ctx context.Context, _ []string) error {
	if err := s.views.History.Load(ctx); err != nil {
		s.printf("Could not load orders: %s\n", describe(err))
	}
	return s.render(s.views.History)
}

func (s *Shell) admin(ctx context.Context, args []string) error {
	switch {
	case len(args) == 0:
		if err := s.views.Admin.Load(ctx); err != nil {
			s.printf("Some admin data could not be loaded: %s\n", describe(err))
		}
		return s.render(s.views.Admin)
	case args[0] == "generate" && len(args) == 1:
		msg, _ := s.views.Admin.GenerateDiscount(ctx)
		s.printf("%s\n", msg)
		return nil
	case args[0] == "nth" && len(args) <= 2:
		input := ""
		if len(args) == 2 {
			input = args[1]
		}
		msg, _ := s.views.Admin.SetNthOrder(ctx, input)
		s.printf("%s\n", msg)
		return nil
	default:
		return usageError("admin [generate | nth <n>]")
	}
}

func usageError(usage string) error {
	return noticef("Usage: %s", usage)
}

func paymentList() string {
	names := make([]string, 0, len(order.PaymentMethods))
	for _, m := range order.PaymentMethods {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}

// describe turns err into a line for the user.
func describe(err error) string {
	switch {
	case errors.Is(err, view.ErrMinQuantity):
		return "Quantity cannot go below 1"
	case errors.Is(err, view.ErrUnknownItem):
		return "That product is not in your cart"
	case errors.Is(err, view.ErrUnknownProduct):
		return "Unknown product, type products to see the catalog"
	case errors.Is(err, view.ErrSubmitInProgress):
		return "Your order is already being placed"
	case errors.Is(err, view.ErrCheckoutCompleted):
		return "Order already placed, type done to continue shopping"
	case errors.Is(err, view.ErrCartEmpty):
		return "Your cart is empty"
	case errors.Is(err, api.ErrNetwork):
		return "Could not reach the store, please try again"
	case errors.Is(err, api.ErrMalformed):
		return "The store sent an unexpected response, please try again"
	}
	if reason, ok := api.Reason(err); ok {
		return reason
	}
	if errors.Is(err, api.ErrRejected) {
		return "The request was rejected"
	}
	return err.Error()
}
