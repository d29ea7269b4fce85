package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/radieske/wicketick/internal/wicketick"
)

// options são os argumentos da linha de comando já validados
type options struct {
	kind       wicketick.SourceKind // 0 quando nenhum subcomando foi dado
	matchID    string
	path       string
	interval   int  // segundos
	intervalOK bool // --time-interval foi passado
	candidates []string
	configPath string
	help       bool
}

// template monta o Source vindo da CLI (pode não ter identificador)
func (o options) template() wicketick.Source {
	switch o.kind {
	case wicketick.SourceLocal:
		return wicketick.Local(o.path)
	case wicketick.SourceRelay:
		return wicketick.Relay(o.matchID)
	default:
		return wicketick.Remote(o.matchID)
	}
}

// publishesSnapshots diz se o poller deve publicar no Kafka. Só remote tem
// MatchID roteável; relay leria de volta o próprio cache.
func (o options) publishesSnapshots() bool {
	return o.template().Kind == wicketick.SourceRemote
}

func newFlagSet(name string, opts *options) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.StringVar(&opts.matchID, "match-id", "", "match identifier (remote and relay)")
	flagSet.StringVar(&opts.path, "path", "", "path to a match summary JSON file (local)")
	flagSet.IntVar(&opts.interval, "time-interval", 30, "seconds between background refreshes")
	flagSet.StringSliceVar(&opts.candidates, "candidates", nil, "matches offered by the select key, comma separated")
	flagSet.StringVar(&opts.configPath, "config", "", "YAML file applied over the environment")
	flagSet.BoolVarP(&opts.help, "help", "h", false, "show help")
	flagSet.SetOutput(os.Stderr)
	return flagSet
}

// parseArgs lê "wicketick [remote|local|relay] [flags]"
func parseArgs(args []string) (options, *pflag.FlagSet, error) {
	var opts options
	name := "wicketick"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		kind, err := wicketick.ParseSourceKind(args[0])
		if err != nil {
			return opts, nil, err
		}
		opts.kind = kind
		name += " " + args[0]
		args = args[1:]
	}

	flagSet := newFlagSet(name, &opts)
	if err := flagSet.Parse(args); err != nil {
		return opts, flagSet, err
	}
	if opts.help {
		return opts, flagSet, nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return opts, flagSet, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	if opts.interval <= 0 {
		return opts, flagSet, fmt.Errorf("--time-interval must be positive, got %d", opts.interval)
	}
	opts.intervalOK = flagSet.Changed("time-interval")

	switch opts.kind {
	case wicketick.SourceLocal:
		if opts.matchID != "" {
			return opts, flagSet, fmt.Errorf("--match-id is not used by the local source")
		}
	case wicketick.SourceRemote, wicketick.SourceRelay:
		if opts.path != "" {
			return opts, flagSet, fmt.Errorf("--path is only used by the local source")
		}
	}
	return opts, flagSet, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `wicketick: live cricket score ticker for the terminal.

Usage:
  wicketick [remote|local|relay] [flags]

Without a source the ticker opens on the source selection screen; a source
without --match-id/--path opens the match selection screen.

Keys:
  1  select / switch match
  r  refresh now
  q  quit

Examples:
  wicketick remote --match-id 1410472
  wicketick local --path testdata/match.json --time-interval 5
  wicketick relay --candidates 1410472,1410473

Flags:
`)
	flagSet.PrintDefaults()
}
