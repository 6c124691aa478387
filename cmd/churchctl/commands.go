package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jrsteele09/go-church-gql/graphql"
	"github.com/jrsteele09/go-church-gql/internal/errors"
	"github.com/jrsteele09/go-church-gql/sessions"
	"github.com/jrsteele09/go-church-gql/token"
	"github.com/urfave/cli/v2"
)

const meQuery = `query Me {
  me {
    id
    firstName
    lastName
    email
    role
  }
}`

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "authenticate and save the session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", EnvVars: []string{"CHURCHCTL_PASSWORD"}, Required: true},
			&cli.BoolFlag{Name: "banner", Usage: "print the application banner"},
		},
		Action: func(cCtx *cli.Context) error {
			a := fromContext(cCtx)
			if cCtx.Bool("banner") {
				displayAppname(a.cfg.GetAppName())
			}
			user, err := a.client.Login(cCtx.Context, cCtx.String("email"), cCtx.String("password"))
			if err != nil {
				return err
			}
			if user == nil {
				fmt.Println("Logged in.")
				return nil
			}
			fmt.Printf("Logged in as %s (%s). Dashboard: %s\n", user.FullName(), user.Role, user.Role.Dashboard())
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "revoke and clear the saved session",
		Action: func(cCtx *cli.Context) error {
			a := fromContext(cCtx)
			if err := a.client.Logout(cCtx.Context); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "show the signed in member",
		Action: func(cCtx *cli.Context) error {
			a := fromContext(cCtx)
			resp, err := a.client.Execute(cCtx.Context, graphql.NewOperation("Me", meQuery, nil))
			if err != nil {
				return a.result(err)
			}
			if resp.HasErrors() {
				return fmt.Errorf("whoami: %s", strings.Join(resp.Messages(), "; "))
			}
			var data struct {
				Me sessions.User `json:"me"`
			}
			if err := resp.Decode(&data); err != nil {
				return err
			}
			fmt.Printf("%s <%s>\nRole: %s\nDashboard: %s\n", data.Me.FullName(), data.Me.Email, data.Me.Role, data.Me.Role.Dashboard())
			return nil
		},
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "show the saved session without calling the API",
		Action: func(cCtx *cli.Context) error {
			a := fromContext(cCtx)
			session, err := a.store.Load(cCtx.Context)
			if err != nil {
				return err
			}
			fmt.Printf("Endpoint: %s\n", a.endpoint)
			if session.IsEmpty() {
				fmt.Println("Not logged in.")
				return nil
			}
			if session.User != nil {
				fmt.Printf("User: %s (%s)\n", session.User.FullName(), session.User.Role)
			}
			fmt.Printf("Refresh token: %t\n", session.HasRefreshToken())
			if !session.HasAccessToken() {
				fmt.Println("Access token: none")
				return nil
			}
			claims, err := token.Inspect(session.AccessToken)
			if err != nil {
				fmt.Println("Access token: present (not a JWT)")
				return nil
			}
			switch {
			case claims.ExpiresAt.IsZero():
				fmt.Println("Access token: no expiry")
			case claims.Expired(time.Now()):
				fmt.Printf("Access token: expired %s ago, will refresh on next call\n", time.Since(claims.ExpiresAt).Round(time.Second))
			default:
				fmt.Printf("Access token: valid for %s\n", time.Until(claims.ExpiresAt).Round(time.Second))
			}
			return nil
		},
	}
}

func queryCommand() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "execute a GraphQL query or mutation",
		ArgsUsage: "[document]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "read the document from a file"},
			&cli.StringFlag{Name: "operation", Aliases: []string{"o"}, Usage: "operation name"},
			&cli.StringSliceFlag{Name: "var", Usage: "variable as name=value; JSON values are decoded"},
		},
		Action: func(cCtx *cli.Context) error {
			a := fromContext(cCtx)

			document := cCtx.Args().First()
			if path := cCtx.String("file"); path != "" {
				b, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				document = string(b)
			}
			if strings.TrimSpace(document) == "" {
				return errors.Wrapf(errors.ErrInvalidRequest, "query: no document given")
			}

			vars, err := parseVariables(cCtx.StringSlice("var"))
			if err != nil {
				return err
			}

			resp, err := a.client.Execute(cCtx.Context, graphql.NewOperation(cCtx.String("operation"), document, vars))
			if err != nil {
				return a.result(err)
			}

			out, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			if resp.HasErrors() {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

// parseVariables reads name=value pairs. Values that parse as JSON keep their
// JSON type, anything else is a string.
func parseVariables(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	vars := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("variable %q must be name=value", pair)
		}
		var decoded any
		dec := json.NewDecoder(bytes.NewReader([]byte(value)))
		if err := dec.Decode(&decoded); err == nil && !dec.More() {
			vars[name] = decoded
			continue
		}
		vars[name] = value
	}
	return vars, nil
}
