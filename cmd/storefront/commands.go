package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/app"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/favorites"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/notify"
)

var errUsage = errors.New("usage")

type cli struct {
	app *app.App
	out io.Writer
	in  io.Reader
}

func (c *cli) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return c.login(ctx, args)
	case "register":
		return c.register(ctx, args)
	case "logout":
		c.app.Logout(ctx)
		fmt.Fprintln(c.out, "logged out")
		return nil
	case "whoami":
		return c.whoami()
	case "categories":
		return c.categories(ctx)
	case "products":
		return c.products(ctx, args)
	case "search":
		return c.search(ctx, args)
	case "cart":
		return c.cart(ctx, args)
	case "fav":
		return c.fav(ctx, args)
	case "admin":
		return c.admin(ctx, args)
	default:
		return errUsage
	}
}

// message is the text shown for a failed command: the same message the UI
// would show, else the error itself.
func (c *cli) message(err error) string {
	return notify.UserMessage(err, err.Error())
}

func (c *cli) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password (read from stdin if empty)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *email == "" {
		return errUsage
	}
	pw, err := c.passwordOrPrompt(*password)
	if err != nil {
		return err
	}
	id, err := c.app.Login(ctx, *email, pw)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "logged in as %s <%s> (%s)\n", id.Name, id.Email, id.Role)
	return nil
}

func (c *cli) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password (read from stdin if empty)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *name == "" || *email == "" {
		return errUsage
	}
	pw, err := c.passwordOrPrompt(*password)
	if err != nil {
		return err
	}
	if err := c.app.Register(ctx, *name, *email, pw); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "account created, you can log in now")
	return nil
}

func (c *cli) passwordOrPrompt(pw string) (string, error) {
	if pw != "" {
		return pw, nil
	}
	fmt.Fprint(c.out, "password: ")
	line, err := bufio.NewReader(c.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *cli) whoami() error {
	u, err := c.app.RequireUser()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s <%s> role=%s id=%s\n", u.Name, u.Email, u.Role, u.ID)
	return nil
}

func (c *cli) categories(ctx context.Context) error {
	cats, err := c.app.Catalog.ListCategories(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, cat := range cats {
		fmt.Fprintf(tw, "%s\t%s\n", cat.ID, cat.Name)
	}
	return tw.Flush()
}

func (c *cli) products(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	category := fs.String("category", "", "category id")
	if err := fs.Parse(args); err != nil || *category == "" {
		return errUsage
	}
	products, err := c.app.Catalog.ListProducts(ctx, *category)
	if err != nil {
		return err
	}
	return c.printProducts(products)
}

func (c *cli) search(ctx context.Context, args []string) error {
	products, err := c.app.Catalog.Search(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	return c.printProducts(products)
}

func (c *cli) printProducts(products []catalog.Product) error {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPRICE")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\n", p.ID, p.Title, p.UnitPrice)
	}
	return tw.Flush()
}

func (c *cli) cart(ctx context.Context, args []string) error {
	if _, err := c.app.RequireUser(); err != nil {
		return err
	}
	sub := "show"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	var err error
	switch sub {
	case "show":
	case "add":
		if len(args) < 1 {
			return errUsage
		}
		qty := 1
		if len(args) > 1 {
			if qty, err = strconv.Atoi(args[1]); err != nil {
				return errUsage
			}
		}
		err = c.app.Cart.Add(ctx, args[0], qty)
	case "remove":
		if len(args) != 1 {
			return errUsage
		}
		err = c.app.Cart.Remove(ctx, args[0])
	case "inc":
		if len(args) != 1 {
			return errUsage
		}
		err = c.app.Cart.IncreaseQuantity(ctx, args[0])
	case "dec":
		if len(args) != 1 {
			return errUsage
		}
		err = c.app.Cart.DecreaseQuantity(ctx, args[0])
	default:
		return errUsage
	}
	if err != nil {
		return err
	}

	lines := c.app.Cart.Lines()
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tTITLE\tQTY\tPRICE\tSUBTOTAL")
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%.2f\n", l.ProductID, l.Title, l.Quantity, l.UnitPrice, l.Subtotal())
	}
	fmt.Fprintf(tw, "\t\t%d\t\t%.2f\n", c.app.Cart.Count(), c.app.Cart.Total())
	return tw.Flush()
}

func (c *cli) fav(ctx context.Context, args []string) error {
	if _, err := c.app.RequireUser(); err != nil {
		return err
	}
	sub := "show"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	var err error
	switch sub {
	case "show":
	case "add":
		if len(args) != 1 {
			return errUsage
		}
		err = c.app.Favorites.Add(ctx, favorites.Product{ProductID: args[0]})
		if err == nil {
			// the CLI has no product details at hand; take the server's
			err = c.app.Favorites.Refresh(ctx)
		}
	case "remove":
		if len(args) != 1 {
			return errUsage
		}
		err = c.app.Favorites.Remove(ctx, args[0])
	default:
		return errUsage
	}
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FAVORITE\tPRODUCT\tTITLE\tPRICE")
	for _, e := range c.app.Favorites.Entries() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\n", e.FavoriteID, e.Product.ProductID, e.Product.Title, e.Product.UnitPrice)
	}
	return tw.Flush()
}

func (c *cli) admin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "add-product":
		return c.addProduct(ctx, args[1:])
	case "delete-product":
		if len(args) != 2 {
			return errUsage
		}
		if err := c.app.Catalog.DeleteProduct(ctx, args[1]); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "product deleted")
		return nil
	default:
		return errUsage
	}
}

func (c *cli) addProduct(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-product", flag.ContinueOnError)
	title := fs.String("title", "", "product title")
	price := fs.Float64("price", 0, "unit price")
	category := fs.String("category", "", "category id")
	description := fs.String("description", "", "description")
	image := fs.String("image", "", "path to the product image")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	p := catalog.NewProduct{
		Title:       *title,
		Description: *description,
		Price:       *price,
		CategoryID:  *category,
	}
	if *image != "" {
		f, err := os.Open(*image)
		if err != nil {
			return fmt.Errorf("open image: %w", err)
		}
		defer f.Close()
		p.Image = f
		p.ImageName = filepath.Base(*image)
		p.ImageType = imageType(*image)
	}

	if err := c.app.Catalog.AddProduct(ctx, p); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "product added")
	return nil
}

func imageType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
