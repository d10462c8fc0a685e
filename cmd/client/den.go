package main

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"dragons-den/internal/den"
	"dragons-den/internal/dragon"
	"dragons-den/internal/ruins"
	"dragons-den/internal/shared/config"
	"dragons-den/internal/world"

	"github.com/dustin/go-humanize"
)

const denHelp = `den commands:
  dragons                      list dragons, party and resources
  world                        weather and discovered locations
  party <dragon>...            pick up to 4 dragons
  discover <location>          mark a location as discovered
  expedition <location>        send the party exploring
  ruin <ruin>                  explore the next floor of a ruin
  bond <dragon> <activity>     run a bonding activity
  breed <dragon> <dragon>      start incubating an egg
  fight <location>             fight the wild dragons of a location`

const starterFood = 100

// newDen builds the local den for the configured world seed and adopts the
// starter dragon.
func newDen(now time.Time) (*den.Keeper, error) {
	game := config.GlobalConfig.Game
	cfg := world.DefaultConfig(game.WorldSeed)
	if game.WorldWidth > 0 && game.WorldHeight > 0 {
		cfg.Width, cfg.Height = game.WorldWidth, game.WorldHeight
	}

	k := den.New(cfg, den.Options{Logger: slog.Default()})
	starter := dragon.NewHatchling("ember", "Ember", dragon.Fire, dragon.Loyal, dragon.Common, now)
	if err := k.AddDragon(starter); err != nil {
		return nil, err
	}
	if err := k.SetParty([]string{starter.ID}); err != nil {
		return nil, err
	}
	k.AddResource("food", starterFood)
	return k, nil
}

// updates forwards non-empty den reports from the session ticker.
func updates(k *den.Keeper, reports chan<- den.Report) func(time.Duration) {
	return func(elapsed time.Duration) {
		rep := k.Update(elapsed)
		if rep.Exploration == nil && rep.Hatched == nil && len(rep.Aged) == 0 && len(rep.Achievements) == 0 {
			return
		}
		select {
		case reports <- rep:
		default:
			slog.Debug("Dropped den report", "component", "client")
		}
	}
}

// denCommand runs a den command. It reports false when the command is not
// a den command.
func denCommand(k *den.Keeper, out io.Writer, fields []string) bool {
	args := fields[1:]
	need := func(n int, usage string) bool {
		if len(args) != n {
			fmt.Fprintln(out, "usage: "+usage)
			return false
		}
		return true
	}

	var err error
	switch fields[0] {
	case "dragons":
		printDragons(out, k)
	case "world":
		printWorld(out, k)
	case "party":
		if len(args) == 0 {
			fmt.Fprintln(out, "usage: party <dragon>...")
			return true
		}
		err = k.SetParty(args)
	case "discover":
		if need(1, "discover <location>") {
			err = k.Discover(args[0])
		}
	case "expedition":
		if !need(1, "expedition <location>") {
			return true
		}
		var exp den.Expedition
		if exp, err = k.StartExploration(args[0]); err == nil {
			fmt.Fprintf(out, "expedition to %s takes %s (%s)\n", exp.LocationID, exp.Duration.Round(time.Second), exp.Weather)
		}
	case "ruin":
		if !need(1, "ruin <ruin>") {
			return true
		}
		var res ruins.Result
		if res, err = k.ExploreRuin(args[0], ruins.Choices{}); err == nil {
			fmt.Fprintf(out, "floor success=%t loot=%s xp=%d\n", res.Success, strings.Join(res.Loot, ","), res.Experience)
			for _, d := range res.Discoveries {
				fmt.Fprintln(out, "  "+d)
			}
			if res.RuinCompleted {
				fmt.Fprintln(out, "ruin cleared")
			}
		}
	case "bond":
		if !need(2, "bond <dragon> <activity>") {
			return true
		}
		var res den.BondResult
		if res, err = k.Bond(args[0], args[1]); err == nil {
			fmt.Fprintf(out, "%s bonding +%d (%.0f)\n", res.DragonID, res.Gain, res.Bonding)
		}
	case "breed":
		if !need(2, "breed <dragon> <dragon>") {
			return true
		}
		var inc den.Incubation
		if inc, err = k.Breed(args[0], args[1]); err == nil {
			fmt.Fprintf(out, "egg hatches in %s\n", inc.Remaining.Round(time.Second))
		}
	case "fight":
		if !need(1, "fight <location>") {
			return true
		}
		var res dragon.CombatResult
		if res, err = k.Fight(args[0]); err == nil {
			fmt.Fprintf(out, "victory=%t flawless=%t\n", res.Victory, res.Flawless)
		}
	default:
		return false
	}

	if err != nil {
		fmt.Fprintf(out, "%s failed: %v\n", fields[0], err)
	}
	return true
}

func printReport(out io.Writer, rep den.Report) {
	if e := rep.Exploration; e != nil {
		fmt.Fprintf(out, "expedition to %s done: success=%t gold=%s treasures=%s\n",
			e.LocationID, e.Success, humanize.Commaf(e.Gold), strings.Join(e.Treasures, ","))
		if len(e.Discovered) > 0 {
			fmt.Fprintf(out, "discovered: %s\n", strings.Join(e.Discovered, ", "))
		}
	}
	if d := rep.Hatched; d != nil {
		fmt.Fprintf(out, "egg hatched: %s (%s %s)\n", d.ID, d.Traits.Rarity, d.Traits.Primary)
	}
	for _, id := range rep.Aged {
		fmt.Fprintf(out, "%s grew older\n", id)
	}
	for _, a := range rep.Achievements {
		fmt.Fprintf(out, "den achievement unlocked: %s (%s)\n", a.Name, a.Description)
	}
}

func printDragons(out io.Writer, k *den.Keeper) {
	for _, d := range k.Dragons() {
		party := ""
		if d.InParty {
			party = " [party]"
		}
		fmt.Fprintf(out, "%s %s: %s %s lvl %d, bonding %.0f%s\n",
			d.ID, d.Name, d.Traits.Age, d.Traits.Primary, d.Traits.Level, d.Traits.Bonding, party)
	}
	if exp, ok := k.Expedition(); ok {
		fmt.Fprintf(out, "expedition to %s: %s left\n", exp.LocationID, exp.Remaining.Round(time.Second))
	}
	if inc, ok := k.Incubation(); ok {
		fmt.Fprintf(out, "egg: %s left\n", inc.Remaining.Round(time.Second))
	}
	res := k.Resources()
	names := make([]string, 0, len(res))
	for _, name := range slices.Sorted(maps.Keys(res)) {
		names = append(names, fmt.Sprintf("%s=%s", name, humanize.Commaf(res[name])))
	}
	fmt.Fprintf(out, "resources: %s\n", strings.Join(names, " "))
}

func printWorld(out io.Writer, k *den.Keeper) {
	w := k.Weather()
	fmt.Fprintf(out, "weather %s, %s left\n", w.Type, w.Remaining.Round(time.Second))
	for _, l := range k.Locations() {
		if !l.Discovered {
			continue
		}
		fmt.Fprintf(out, "%s %s: %s %s, level %d, %.0f%% explored\n",
			l.ID, l.Name, l.Biome, l.Difficulty, l.RequiredLevel, l.ExplorationProgress)
		for _, r := range l.Encounters.Ruins {
			fmt.Fprintf(out, "  ruin %s %s (%d floors, next %d)\n", r.ID, r.Name, len(r.Floors), k.RuinFloor(r.ID)+1)
		}
	}
}
