// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/tickr/internal/formatter"
	"github.com/urfave/cli/v3"
)

// setupCommand handles setup operations for the database and configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a config file populated with the defaults",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path of the config file to create",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// serveCommand runs the HTTP document store.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the document store server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (overrides server.port)",
			},
		},
		Action: r.Serve,
	}
}

// userCommand handles account and session operations
func userCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "user",
		Aliases: []string{"auth"},
		Usage:   "Manage your account and session",
		Commands: []*cli.Command{
			{
				Name:  "signup",
				Usage: "Create an account and sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Usage:    "Account email address",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Display name (defaults to the email's local part)",
					},
				},
				Action: r.UserSignup,
			},
			{
				Name:  "login",
				Usage: "Sign in with an existing bearer token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "token",
						Usage:    "Bearer token issued at signup",
						Required: true,
					},
				},
				Action: r.UserLogin,
			},
			{
				Name:   "logout",
				Usage:  "Revoke the current token and sign out",
				Action: r.UserLogout,
			},
			{
				Name:   "whoami",
				Usage:  "Show the signed-in account",
				Action: r.UserWhoami,
			},
		},
	}
}

// themeCommand handles display theme operations
func themeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "theme",
		Usage: "Show or change the display theme",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the active theme",
				Action: r.ThemeShow,
			},
			{
				Name:   "toggle",
				Usage:  "Switch between light and dark",
				Action: r.ThemeToggle,
			},
			{
				Name:  "init",
				Usage: "Initialize the theme from a preference, the cache, or the default",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "prefer",
						Usage: "Preferred theme (light or dark)",
					},
				},
				Action: r.ThemeInit,
			},
		},
	}
}

// favouritesCommand handles favourite symbol operations
func favouritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favourites",
		Aliases: []string{"fav", "favs"},
		Usage:   "Manage favourite stock symbols",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List favourites",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (txt, csv, markdown, json)",
						Value:   formatter.FormatText,
					},
				},
				Action: r.FavouritesList,
			},
			{
				Name:  "add",
				Usage: "Add a favourite",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "symbol"},
					&cli.StringArg{Name: "name"},
				},
				Action: r.FavouritesAdd,
			},
			{
				Name:    "remove",
				Aliases: []string{"rm"},
				Usage:   "Remove a favourite",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "symbol"},
				},
				Action: r.FavouritesRemove,
			},
			{
				Name:  "check",
				Usage: "Check whether a symbol is a favourite",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "symbol"},
				},
				Action: r.FavouritesCheck,
			},
			{
				Name:  "import",
				Usage: "Import favourites from a CSV file of symbol,name rows",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "CSV file to import",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent workers (overrides client.import_workers)",
					},
				},
				Action: r.FavouritesImport,
			},
			{
				Name:  "export",
				Usage: "Export favourites to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, markdown, txt, json)",
						Value:   formatter.FormatJSON,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: favourites.<ext>)",
					},
				},
				Action: r.FavouritesExport,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive favourites management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for favourites",
		Action:  r.TUI,
	}
}
