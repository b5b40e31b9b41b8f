package main

import (
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

var listingIDFlag = cli.StringFlag{
	Name:     "id",
	Usage:    "the id of the listing",
	Required: true,
}

var list = cli.Command{
	Name:  "list",
	Usage: "add a derivative token to the marketplace",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "contract",
			Usage:    "the address of the token contract",
			Required: true,
		},
		&cli.Uint64Flag{
			Name:     "token_id",
			Usage:    "the id of the token within its contract",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "price",
			Usage:    "the price of the listing",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "beneficiary",
			Usage:    "the account owning the listed token",
			Required: true,
		},
		&cli.UintFlag{
			Name:  "fee",
			Usage: "the fee in basis points taken by the listing",
		},
	},
	Action: listAction,
}

var listings = cli.Command{
	Name:  "listings",
	Usage: "list the marketplace listings",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "contract",
			Usage: "filter by token contract",
		},
		&cli.StringFlag{
			Name:  "beneficiary",
			Usage: "filter by beneficiary",
		},
		&cli.StringFlag{
			Name:  "proprietary",
			Usage: "filter by proprietary status: true or false",
		},
		&cli.IntFlag{
			Name:  "page",
			Usage: "the page number",
		},
		&cli.IntFlag{
			Name:  "size",
			Usage: "the page size",
		},
	},
	Action: listingsAction,
}

var listing = cli.Command{
	Name:   "listing",
	Usage:  "get a listing by id",
	Flags:  []cli.Flag{&listingIDFlag},
	Action: listingAction,
}

var proprietary = cli.Command{
	Name:  "proprietary",
	Usage: "make a listing proprietary",
	Flags: []cli.Flag{
		&listingIDFlag,
		&cli.StringFlag{
			Name:     "value",
			Usage:    "the value offered for the listing",
			Required: true,
		},
	},
	Action: proprietaryAction,
}

var price = cli.Command{
	Name:  "price",
	Usage: "update the price of a listing",
	Flags: []cli.Flag{
		&listingIDFlag,
		&cli.StringFlag{
			Name:     "price",
			Usage:    "the new price of the listing",
			Required: true,
		},
	},
	Action: priceAction,
}

var fee = cli.Command{
	Name:  "fee",
	Usage: "preview the fee of a listing over an amount",
	Flags: []cli.Flag{
		&listingIDFlag,
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "the amount to compute the fee for",
			Required: true,
		},
	},
	Action: feeAction,
}

func listAction(ctx *cli.Context) error {
	listingPrice, err := decimal.NewFromString(ctx.String("price"))
	if err != nil {
		return fmt.Errorf("invalid price: %w", err)
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	resp, err := client.post("/v1/listings", map[string]interface{}{
		"contract_address": ctx.String("contract"),
		"token_id":         ctx.Uint64("token_id"),
		"price":            listingPrice,
		"beneficiary":      ctx.String("beneficiary"),
		"fee_basis_points": ctx.Uint("fee"),
	})
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func listingsAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	q := url.Values{}
	for _, key := range []string{"contract", "beneficiary", "proprietary"} {
		if v := ctx.String(key); v != "" {
			q.Set(key, v)
		}
	}
	for _, key := range []string{"page", "size"} {
		if ctx.IsSet(key) {
			q.Set(key, fmt.Sprintf("%d", ctx.Int(key)))
		}
	}

	path := "/v1/listings"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	resp, err := client.get(path)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func listingAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	resp, err := client.get(listingPath(ctx, ""))
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func proprietaryAction(ctx *cli.Context) error {
	value, err := decimal.NewFromString(ctx.String("value"))
	if err != nil {
		return fmt.Errorf("invalid value: %w", err)
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	resp, err := client.post(
		listingPath(ctx, "/proprietary"), map[string]interface{}{"value": value},
	)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func priceAction(ctx *cli.Context) error {
	newPrice, err := decimal.NewFromString(ctx.String("price"))
	if err != nil {
		return fmt.Errorf("invalid price: %w", err)
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	resp, err := client.post(
		listingPath(ctx, "/price"), map[string]interface{}{"price": newPrice},
	)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func feeAction(ctx *cli.Context) error {
	amount, err := decimal.NewFromString(ctx.String("amount"))
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	resp, err := client.get(
		listingPath(ctx, "/fee") + "?amount=" + url.QueryEscape(amount.String()),
	)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func listingPath(ctx *cli.Context, suffix string) string {
	return fmt.Sprintf("/v1/listings/%s%s", url.PathEscape(ctx.String("id")), suffix)
}
