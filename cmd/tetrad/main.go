// Command tetrad is the downlink decoder daemon: it reads a hard-bit
// stream from a UDP socket, a file, or a pcap replay, runs it through the
// decoder core, and forwards decoded reports to a UDP/JSON sink
// (spec.md §6). Flag handling, YAML cell configuration and the
// leveled-logging setup follow the teacher's cmd/dmrstream and
// cmd/dmrdatadump entry points.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/op/go-logging"

	"github.com/tetra-rx/tetra-kit/cell"
	"github.com/tetra-rx/tetra-kit/decoder"
	"github.com/tetra-rx/tetra-kit/input"
	"github.com/tetra-rx/tetra-kit/sink"
	"github.com/tetra-rx/tetra-kit/wire"
)

var log = logging.MustGetLogger("tetra/tetrad")

func setupLogging(level int) {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatter := logging.MustStringFormatter(
		`%{time:15:04:05.000} %{level:.4s} %{module} %{message}`,
	)
	formatted := logging.NewBackendFormatter(backend, formatter)
	leveled := logging.AddModuleLevel(formatted)
	levels := []logging.Level{logging.CRITICAL, logging.ERROR, logging.WARNING, logging.INFO, logging.DEBUG}
	if level < 0 {
		level = 0
	} else if level >= len(levels) {
		level = len(levels) - 1
	}
	leveled.SetLevel(levels[level], "")
	logging.SetBackend(leveled)
}

func main() {
	rxPort := flag.Int("r", 42000, "input UDP port")
	txPort := flag.Int("t", 42100, "output UDP port")
	inFile := flag.String("i", "", "replay input bit stream from file")
	outFile := flag.String("o", "", "mirror input bit stream to file")
	pcapFile := flag.String("pcap", "", "replay input bit stream from a pcap capture")
	packed := flag.Bool("P", false, "packed input (8 bits/byte, LSB-first)")
	keepFill := flag.Bool("f", false, "keep fill bits (disables MAC fill-bit stripping)")
	level := flag.Int("d", 2, "log level 0..4 (0=critical .. 4=debug)")
	wireOut := flag.String("w", "", "enable wire-capture emitter to file")
	cellConfig := flag.String("c", "", "cell configuration file (YAML)")
	flag.Parse()

	setupLogging(*level)

	c := cell.New()
	if *cellConfig != "" {
		cfg, err := cell.LoadConfig(*cellConfig)
		if err != nil {
			log.Errorf("loading cell config: %v", err)
			os.Exit(1)
		}
		c.Seed(cfg)
	}

	var src input.Reader
	switch {
	case *pcapFile != "":
		r, err := input.NewPCAPReader(*pcapFile, *packed)
		if err != nil {
			log.Errorf("opening pcap replay: %v", err)
			os.Exit(1)
		}
		defer r.Close()
		src = r
	case *inFile != "":
		f, err := os.Open(*inFile)
		if err != nil {
			log.Errorf("opening input file: %v", err)
			os.Exit(1)
		}
		defer f.Close()
		src = input.NewRawReader(f, *packed)
	default:
		conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: *rxPort})
		if err != nil {
			log.Errorf("listening on UDP port %d: %v", *rxPort, err)
			os.Exit(1)
		}
		defer conn.Close()
		src = input.NewRawReader(conn, *packed)
		log.Infof("listening for hard-bit symbols on UDP port %d", *rxPort)
	}

	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			log.Errorf("opening mirror file: %v", err)
			os.Exit(1)
		}
		defer f.Close()
		src = input.NewTeeReader(src, f)
	}

	sk, err := sink.NewUDPJSONSink(fmt.Sprintf("127.0.0.1:%d", *txPort))
	if err != nil {
		log.Errorf("dialing output sink on UDP port %d: %v", *txPort, err)
		os.Exit(1)
	}
	defer sk.Close()

	var wr *wire.Writer
	if *wireOut != "" {
		wr, err = wire.New(*wireOut)
		if err != nil {
			log.Errorf("opening wire capture %q: %v", *wireOut, err)
			os.Exit(1)
		}
		defer wr.Close()
	}

	dec := decoder.New()
	dec.KeepFillBits(*keepFill)
	dec.SeedCell(c)

	for {
		sym, err := src.ReadSymbol()
		if err != nil {
			log.Infof("input stream ended: %v", err)
			return
		}
		for _, r := range dec.RxSymbol(sym) {
			sk.Send(r)
			if wr != nil {
				if werr := wr.Write(r.Channel, r.Time, r.TMSDU); werr != nil {
					log.Warningf("wire capture write: %v", werr)
				}
			}
		}
	}
}
