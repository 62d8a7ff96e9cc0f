package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/kevin07696/gocardless-go/internal/config"
	"github.com/kevin07696/gocardless-go/pkg/encoding"
	"github.com/kevin07696/gocardless-go/pkg/gocardless"
	"github.com/kevin07696/gocardless-go/pkg/timeutil"
	"github.com/kevin07696/gocardless-go/pkg/urlbuilder"
	"github.com/shopspring/decimal"
)

type GoCardlessCLI struct {
	ctx    context.Context
	client *gocardless.Client
}

type cliFlags struct {
	amount      string
	length      int
	unit        string
	expiresAt   string
	name        string
	description string
	state       string
	redirectURI string
	cancelURI   string
	resource    string
	id          string
	query       string
}

func main() {
	var f cliFlags
	action := flag.String("action", "", "Action to perform: bill-url, subscription-url, preauth-url, merchant-url, get, confirm")
	flag.StringVar(&f.amount, "amount", "", "Amount (bill, subscription) or max amount (pre-authorization), e.g. 20.00")
	flag.IntVar(&f.length, "interval-length", 1, "Interval length for subscriptions and pre-authorizations")
	flag.StringVar(&f.unit, "interval-unit", "month", "Interval unit: day, week, month")
	flag.StringVar(&f.expiresAt, "expires-at", "", "Expiry timestamp, e.g. 2025-01-01T00:00:00Z")
	flag.StringVar(&f.name, "name", "", "Resource name shown to the payer")
	flag.StringVar(&f.description, "description", "", "Resource description shown to the payer")
	flag.StringVar(&f.state, "state", "", "Opaque state echoed back on redirect")
	flag.StringVar(&f.redirectURI, "redirect-uri", "", "Where the payer is sent afterwards")
	flag.StringVar(&f.cancelURI, "cancel-uri", "", "Where the payer is sent on cancel")
	flag.StringVar(&f.resource, "resource", "bill", "Resource type for get: merchant, user, bill, subscription, pre_authorization, payout")
	flag.StringVar(&f.id, "id", "", "Resource id for get")
	flag.StringVar(&f.query, "query", "", "Redirect query string to confirm, e.g. resource_id=...&signature=...")
	flag.Parse()

	if *action == "" {
		fmt.Println("Usage: gocardless -action=<action> [options]")
		fmt.Println("Actions:")
		fmt.Println("  bill-url         - Print a signed URL for a one-off bill")
		fmt.Println("  subscription-url - Print a signed URL for a subscription")
		fmt.Println("  preauth-url      - Print a signed URL for a pre-authorization")
		fmt.Println("  merchant-url     - Print the OAuth authorize URL for a merchant")
		fmt.Println("  get              - Fetch a resource and print it as JSON")
		fmt.Println("  confirm          - Confirm a resource from its redirect query string")
		os.Exit(1)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.GoCardless.Timeout+5*time.Second)
	defer cancel()

	client, cleanup, err := newClient(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to create client:", err)
	}
	defer cleanup()

	cli := &GoCardlessCLI{ctx: ctx, client: client}

	switch *action {
	case "bill-url":
		err = cli.billURL(f)
	case "subscription-url":
		err = cli.subscriptionURL(f)
	case "preauth-url":
		err = cli.preAuthorizationURL(f)
	case "merchant-url":
		err = cli.merchantURL(f)
	case "get":
		err = cli.get(f)
	case "confirm":
		err = cli.confirm(f)
	default:
		fmt.Printf("Unknown action: %s\n", *action)
		os.Exit(1)
	}
	if err != nil {
		cleanup()
		log.Fatal(err)
	}
}

func (f cliFlags) redirect() urlbuilder.RedirectOptions {
	return urlbuilder.RedirectOptions{
		State:       f.state,
		RedirectURI: f.redirectURI,
		CancelURI:   f.cancelURI,
	}
}

func (f cliFlags) parseAmount() (decimal.Decimal, error) {
	if f.amount == "" {
		return decimal.Zero, fmt.Errorf("-amount is required")
	}
	amount, err := decimal.NewFromString(f.amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid -amount %q: %w", f.amount, err)
	}
	return amount, nil
}

func (f cliFlags) parseExpiresAt() (*time.Time, error) {
	if f.expiresAt == "" {
		return nil, nil
	}
	t, err := timeutil.ParseTimestamp(f.expiresAt)
	if err != nil {
		return nil, fmt.Errorf("invalid -expires-at: %w", err)
	}
	return &t, nil
}

func (cli *GoCardlessCLI) billURL(f cliFlags) error {
	amount, err := f.parseAmount()
	if err != nil {
		return err
	}
	u, err := cli.client.NewBillURL(amount, urlbuilder.BillOptions{
		Name:        f.name,
		Description: f.description,
	}, f.redirect())
	if err != nil {
		return err
	}
	fmt.Println(u)
	return nil
}

func (cli *GoCardlessCLI) subscriptionURL(f cliFlags) error {
	amount, err := f.parseAmount()
	if err != nil {
		return err
	}
	expiresAt, err := f.parseExpiresAt()
	if err != nil {
		return err
	}
	u, err := cli.client.NewSubscriptionURL(amount, f.length, urlbuilder.IntervalUnit(f.unit), urlbuilder.SubscriptionOptions{
		Name:        f.name,
		Description: f.description,
		ExpiresAt:   expiresAt,
	}, f.redirect())
	if err != nil {
		return err
	}
	fmt.Println(u)
	return nil
}

func (cli *GoCardlessCLI) preAuthorizationURL(f cliFlags) error {
	amount, err := f.parseAmount()
	if err != nil {
		return err
	}
	expiresAt, err := f.parseExpiresAt()
	if err != nil {
		return err
	}
	u, err := cli.client.NewPreAuthorizationURL(amount, f.length, urlbuilder.IntervalUnit(f.unit), urlbuilder.PreAuthorizationOptions{
		Name:        f.name,
		Description: f.description,
		ExpiresAt:   expiresAt,
	}, f.redirect())
	if err != nil {
		return err
	}
	fmt.Println(u)
	return nil
}

func (cli *GoCardlessCLI) merchantURL(f cliFlags) error {
	if f.redirectURI == "" {
		return fmt.Errorf("-redirect-uri is required")
	}
	fmt.Println(cli.client.NewMerchantURL(f.redirectURI, urlbuilder.MerchantURLOptions{State: f.state}))
	return nil
}

func (cli *GoCardlessCLI) get(f cliFlags) error {
	if f.id == "" {
		return fmt.Errorf("-id is required")
	}
	res, err := cli.client.Find(cli.ctx, f.resource, f.id)
	if err != nil {
		return err
	}
	if res == nil {
		return fmt.Errorf("%s %s: empty response", f.resource, f.id)
	}

	out, err := encoding.EncodeJSON(res.Raw())
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

func (cli *GoCardlessCLI) confirm(f cliFlags) error {
	values, err := url.ParseQuery(f.query)
	if err != nil {
		return fmt.Errorf("invalid -query: %w", err)
	}
	params := make(map[string]string, len(values))
	for k := range values {
		params[k] = values.Get(k)
	}

	if err := cli.client.ConfirmResource(cli.ctx, params); err != nil {
		return err
	}
	fmt.Printf("Confirmed %s %s\n", params["resource_type"], params["resource_id"])
	return nil
}
