package main

import (
	"fmt"
	"net/url"

	"github.com/urfave/cli/v2"
)

var mint = cli.Command{
	Name:  "mint",
	Usage: "mint a new derivative bound to a metadata uri",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "uri",
			Usage:    "the metadata uri of the derivative",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "an optional name for the derivative",
		},
	},
	Action: mintAction,
}

var derivatives = cli.Command{
	Name:  "derivatives",
	Usage: "list the minted derivatives, or get one by token id",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "owner",
			Usage: "list only the derivatives of the given owner",
		},
		&cli.Uint64Flag{
			Name:  "token_id",
			Usage: "get the derivative with the given token id",
		},
	},
	Action: derivativesAction,
}

func mintAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	resp, err := client.post("/v1/derivatives", map[string]string{
		"uri":  ctx.String("uri"),
		"name": ctx.String("name"),
	})
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func derivativesAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	path := "/v1/derivatives"
	if ctx.IsSet("token_id") {
		path = fmt.Sprintf("%s/%d", path, ctx.Uint64("token_id"))
	} else if owner := ctx.String("owner"); owner != "" {
		path = fmt.Sprintf("%s?owner=%s", path, url.QueryEscape(owner))
	}

	resp, err := client.get(path)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
