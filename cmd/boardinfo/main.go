// Command boardinfo prints the registered board tables and checks firmware
// images against a board's flash.
package main

import (
	"flag"
	"os"

	"go.uber.org/zap"

	"boardcode-go/bsp"
	_ "boardcode-go/bsp/boards"
	"boardcode-go/types"
)

func main() {
	board := flag.String("board", "", "board name (default: all boards)")
	format := flag.String("format", "text", "output format: text or yaml")
	hexFile := flag.String("hex", "", "Intel-HEX image to check against the board's flash")
	find := flag.String("find", "", "function[:instance] to resolve on -board; prints the register writes that configure it")
	flag.Parse()

	log, _ := zap.NewDevelopment()
	defer log.Sync()

	names := bsp.Boards()
	if *board != "" {
		names = []string{*board}
	}
	var boards []*types.BoardDescriptor
	for _, n := range names {
		d, err := bsp.LookupBoard(n)
		if err != nil {
			log.Fatal("lookup board", zap.String("board", n), zap.Strings("known", bsp.Boards()), zap.Error(err))
		}
		boards = append(boards, d)
	}

	if *find != "" {
		if len(boards) != 1 {
			log.Fatal("-find needs -board")
		}
		d, writes, err := dryRun(boards[0].Name, *find)
		if err != nil {
			log.Fatal("resolve pin", zap.String("find", *find), zap.Error(err))
		}
		writeDryRun(os.Stdout, d, writes)
		return
	}

	if *hexFile != "" {
		if len(boards) != 1 {
			log.Fatal("-hex needs -board")
		}
		f, err := os.Open(*hexFile)
		if err != nil {
			log.Fatal("open image", zap.Error(err))
		}
		defer f.Close()
		fit, err := checkImage(boards[0], f)
		if err != nil {
			log.Fatal("image does not fit", zap.String("board", boards[0].Name), zap.Error(err))
		}
		log.Info("image fits",
			zap.String("board", boards[0].Name),
			zap.Stringer("used", fit.Used),
			zap.Stringer("flash", fit.Capacity),
			zap.Float64("pct", 100*float64(fit.Used)/float64(fit.Capacity)))
		return
	}

	reports := make([]boardReport, 0, len(boards))
	for _, d := range boards {
		reports = append(reports, newReport(d))
	}
	switch *format {
	case "yaml":
		if err := writeYAML(os.Stdout, reports); err != nil {
			log.Fatal("encode yaml", zap.Error(err))
		}
	case "text":
		writeText(os.Stdout, reports)
	default:
		log.Fatal("unknown format", zap.String("format", *format))
	}
}
