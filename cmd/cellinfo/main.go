// SPDX-License-Identifier: MIT
//
// Copyright © 2020 Kent Gibson <warthog618@gmail.com>.

// cellinfo brings up a Quectel BG770 modem and dumps signal, network, PDN
// and telemetry information.
//
// This serves as an example of how to drive a BG770 handle end to end, as
// well as providing information which may be useful for debugging.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/binsentry/cellular-bg770/cellular"
	"github.com/binsentry/cellular-bg770/serial"
	"github.com/binsentry/cellular-bg770/trace"
)

var version = "undefined"

func main() {
	dev := flag.String("d", "/dev/ttyUSB0", "path to modem device")
	baud := flag.Int("b", 115200, "baud rate")
	timeout := flag.Duration("t", 10*time.Second, "enablement timeout")
	verbose := flag.Bool("v", false, "log modem interactions")
	vsn := flag.Bool("version", false, "report version and exit")
	flag.Parse()
	if *vsn {
		fmt.Printf("%s %s\n", os.Args[0], version)
		os.Exit(0)
	}

	m, err := serial.New(serial.WithPort(*dev), serial.WithBaud(*baud))
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
	defer m.Close()

	var mio io.ReadWriter = m
	if *verbose {
		mio = trace.New(m)
	}

	h, err := cellular.New(mio)
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
	defer h.Cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	if err := h.Init(ctx); err != nil {
		log.Println(err)
		os.Exit(1)
	}

	if sig, err := h.GetSignalInfo(ctx); err != nil {
		fmt.Println("signal:", err)
	} else {
		fmt.Printf("signal: %+v\n", sig)
	}

	if net, err := h.GetLTENetworkInfo(ctx); err != nil {
		fmt.Println("network:", err)
	} else {
		fmt.Printf("network: %+v\n", net)
	}

	if sim, err := h.GetSimCardStatus(ctx); err != nil {
		fmt.Println("sim:", err)
	} else {
		fmt.Println("sim:", sim)
	}

	if hplmn, err := h.GetSimCardInfo(ctx); err != nil {
		fmt.Println("hplmn:", err)
	} else {
		fmt.Printf("hplmn: %+v\n", hplmn)
	}

	if pdns, err := h.GetPdnStatus(ctx); err != nil {
		fmt.Println("pdn:", err)
	} else {
		for _, p := range pdns {
			fmt.Printf("pdn: %+v\n", p)
		}
	}

	if tmp, err := h.GetModemTemperatures(ctx); err != nil {
		fmt.Println("temperature:", err)
	} else {
		fmt.Printf("temperature: %+v\n", tmp)
	}

	if psm, err := h.GetPsmSettings(ctx); err != nil {
		fmt.Println("psm:", err)
	} else {
		fmt.Printf("psm: %+v\n", psm)
	}
}
