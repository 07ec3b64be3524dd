// passportctl queries passport identities from the command line.
//
// Every query prints JSON on stdout; logs go to stderr. Sources are read from
// the ledger configured by flags or the PASSPORT_* environment, or from a
// seeded in-memory ledger under the demo command.
//
// Usage:
//
//	passportctl --rpc <endpoint> --registry <address> passport <handle>
//	passportctl demo strength 1
package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"
)

var (
	rpcFlag = cli.StringFlag{
		Name:   "rpc",
		Usage:  "Ledger JSON-RPC endpoint",
		EnvVar: "PASSPORT_RPC_URL",
	}
	registryFlag = cli.StringFlag{
		Name:   "registry",
		Usage:  "Identity registry contract address",
		EnvVar: "PASSPORT_REGISTRY_ADDRESS",
	}
	platformsFlag = cli.StringFlag{
		Name:   "platforms",
		Usage:  "Platform registry contract address (optional)",
		EnvVar: "PASSPORT_PLATFORMS_ADDRESS",
	}
	archiveFlag = cli.StringFlag{
		Name:   "archive",
		Usage:  "Verification archive contract address (optional)",
		EnvVar: "PASSPORT_ARCHIVE_ADDRESS",
	}
	rewardsFlag = cli.StringFlag{
		Name:   "rewards",
		Usage:  "Rewards contract address (optional)",
		EnvVar: "PASSPORT_REWARDS_ADDRESS",
	}
	leaderboardFlag = cli.StringFlag{
		Name:   "leaderboard",
		Usage:  "Leaderboard contract address (optional)",
		EnvVar: "PASSPORT_LEADERBOARD_ADDRESS",
	}
	timeoutFlag = cli.DurationFlag{
		Name:   "timeout",
		Usage:  "Per-call ledger timeout",
		EnvVar: "PASSPORT_RPC_TIMEOUT",
	}
	logLevelFlag = cli.StringFlag{
		Name:   "log-level",
		Usage:  "Log level written to stderr (debug, info, warn, error)",
		Value:  "warn",
		EnvVar: "LOG_LEVEL",
	}

	limitFlag = cli.IntFlag{
		Name:  "limit",
		Usage: "Maximum matches to return",
		Value: 10,
	}
	startFlag = cli.Uint64Flag{
		Name:  "start",
		Usage: "First passport identifier to probe",
		Value: 1,
	}
	basicFlag = cli.BoolFlag{
		Name:  "basic",
		Usage: "Score from the identity registry alone",
	}
	depthFlag = cli.IntFlag{
		Name:  "depth",
		Usage: "Leaderboard entries to mirror per board",
		Value: 100,
	}
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "passportctl"
	app.Usage = "Query passport identities, points and verification strength"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		rpcFlag,
		registryFlag,
		platformsFlag,
		archiveFlag,
		rewardsFlag,
		leaderboardFlag,
		timeoutFlag,
		logLevelFlag,
	}

	app.Commands = append(queryCommands(openLedger),
		cli.Command{
			Name:   "mirror",
			Usage:  "Refresh the Redis leaderboard and Postgres archive mirrors once",
			Flags:  []cli.Flag{depthFlag},
			Action: mirrorCmd,
		},
		cli.Command{
			Name:        "demo",
			Usage:       "Run a query against a seeded in-memory ledger",
			Subcommands: queryCommands(openDemo),
		},
	)
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
