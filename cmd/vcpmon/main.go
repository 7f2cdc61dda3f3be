// Command vcpmon reads the debug UART of a board through its ST-Link virtual
// COM port and logs it line by line.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
	"go.uber.org/zap"
)

// ST-Link/V2-1 and V3 enumerate with this USB vendor id.
const stVID = "0483"

func main() {
	port := flag.String("port", "", "serial port (default: first ST-Link VCP)")
	baud := flag.Int("baud", 115200, "baud rate")
	list := flag.Bool("list", false, "list serial ports and exit")
	flag.Parse()

	log, _ := zap.NewDevelopment()
	defer log.Sync()

	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		log.Fatal("enumerate ports", zap.Error(err))
	}
	if *list {
		for _, p := range ports {
			log.Info("port",
				zap.String("name", p.Name),
				zap.Bool("usb", p.IsUSB),
				zap.String("vid", p.VID),
				zap.String("pid", p.PID),
				zap.String("product", p.Product))
		}
		return
	}

	name := *port
	if name == "" {
		name = pickSTLink(ports)
		if name == "" {
			log.Fatal("no ST-Link VCP found; use -port")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := monitor(ctx, log.With(zap.String("port", name)), name, *baud); err != nil {
		log.Fatal("monitor", zap.Error(err))
	}
}

func pickSTLink(ports []*enumerator.PortDetails) string {
	for _, p := range ports {
		if p.IsUSB && strings.EqualFold(p.VID, stVID) {
			return p.Name
		}
	}
	return ""
}

func monitor(ctx context.Context, log *zap.Logger, name string, baud int) error {
	p, err := serial.Open(name, &serial.Mode{BaudRate: baud, DataBits: 8, Parity: serial.NoParity, StopBits: serial.OneStopBit})
	if err != nil {
		return err
	}
	defer p.Close()
	// Bounded reads let the loop notice cancellation.
	if err := p.SetReadTimeout(200 * time.Millisecond); err != nil {
		return err
	}
	log.Info("monitoring", zap.Int("baud", baud))

	go func() {
		<-ctx.Done()
		_ = p.Close()
	}()

	return readLines(ctx, log, p)
}

// readLines logs every line read from r until r fails. Timed-out reads
// surface as io.ErrNoProgress from bufio and are retried; any other error,
// including io.EOF from a vanished port, ends the loop.
func readLines(ctx context.Context, log *zap.Logger, src io.Reader) error {
	r := bufio.NewReader(src)
	var line strings.Builder
	for {
		b, err := r.ReadByte()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, io.ErrNoProgress) {
				r.Reset(src)
				continue
			}
			if line.Len() > 0 {
				log.Info(line.String())
			}
			return err
		}
		switch b {
		case '\r':
		case '\n':
			log.Info(line.String())
			line.Reset()
		default:
			line.WriteByte(b)
		}
	}
}
