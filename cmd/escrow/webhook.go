package main

import (
	"fmt"
	"strings"

	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	"github.com/thanhpk/randstr"
	"github.com/urfave/cli/v2"
)

const secretLen = 32

var webhook = cli.Command{
	Name:  "webhook",
	Usage: "manage the endpoints notified of escrow events",
	Subcommands: []*cli.Command{
		{
			Name:  "add",
			Usage: "add a webhook for a topic",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name: "topic",
					Usage: fmt.Sprintf(
						"the event to be notified of, one of %s",
						strings.Join(ports.Topics(), ", "),
					),
					Value: ports.AnyTopic,
				},
				&cli.StringFlag{
					Name:     "endpoint",
					Usage:    "the URL invoked with a POST request",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "secret",
					Usage: "the secret used to sign the bearer token of requests",
				},
				&cli.BoolFlag{
					Name:  "random-secret",
					Usage: "generate a random secret and print it",
				},
			},
			Action: webhookAddAction,
		},
		{
			Name:      "remove",
			Usage:     "remove a webhook",
			ArgsUsage: "<id>",
			Action:    webhookRemoveAction,
		},
		{
			Name:  "list",
			Usage: "list the webhooks",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "topic",
					Usage: "list only the webhooks notified for this topic",
				},
			},
			Action: webhookListAction,
		},
	},
}

type webhookView struct {
	ID       string `json:"id"`
	Topic    string `json:"topic"`
	Endpoint string `json:"endpoint"`
	Secured  bool   `json:"is_secured"`
}

func webhookAddAction(c *cli.Context) error {
	secret := c.String("secret")
	if c.Bool("random-secret") {
		if secret != "" {
			return &invalidUsageError{c, c.Command.Name}
		}
		secret = randstr.Hex(secretLen)
	}

	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	id, err := svc.pubsub.Subscribe(
		c.Context, c.String("topic"), c.String("endpoint"), secret,
	)
	if err != nil {
		return err
	}

	resp := map[string]string{"id": id}
	if c.Bool("random-secret") {
		resp["secret"] = secret
	}
	return printJSON(c, resp)
}

func webhookRemoveAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return &invalidUsageError{c, c.Command.Name}
	}

	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.pubsub.Unsubscribe(c.Context, c.Args().First()); err != nil {
		return err
	}
	return printJSON(c, map[string]string{"removed": c.Args().First()})
}

func webhookListAction(c *cli.Context) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	subs, err := svc.pubsub.ListSubscriptionsForTopic(c.Context, c.String("topic"))
	if err != nil {
		return err
	}

	views := make([]webhookView, 0, len(subs))
	for _, s := range subs {
		views = append(views, webhookView{s.ID, s.Topic, s.Endpoint, s.IsSecured()})
	}
	return printJSON(c, views)
}
