// cmd/kernelsim/main.go boots the kernel on a host-simulated tick source
// and runs a small fixed scenario: a producer thread and a consumer
// thread trading messages through a mailbox, plus a periodic IRQ that
// wakes a watchdog thread. It exists to exercise the kernel end to end
// outside the test suite, as a standalone bring-up harness.
package main

import (
	"flag"
	"os"
	"time"

	"microkernel/klog"
	"microkernel/kernel"
	"microkernel/kernel/port"
)

func main() {
	tickHz := flag.Uint("tick-hz", 1000, "simulated tick source rate in Hz")
	runFor := flag.Duration("run-for", 2*time.Second, "how long to run before exiting")
	flag.Parse()

	log := klog.New(klog.WriterSink{W: os.Stdout})

	cfg := kernel.DefaultConfig()
	cfg.TickHz = uint32(*tickHz)
	k := kernel.New(cfg, log)

	mbox := k.NewMailbox(4)

	_, err := k.ThreadCreate("producer", make([]byte, 512), 5, func(arg any) {
		n := 0
		for {
			k.ThreadSleep(uint64(cfg.TickHz / 2)) // roughly twice a second
			n++
			mbox.Send(n)
		}
	}, nil, kernel.FlagNone)
	if err != nil {
		log.Println("create producer:", err)
		os.Exit(1)
	}

	_, err = k.ThreadCreate("consumer", make([]byte, 512), 3, func(arg any) {
		for {
			v := mbox.Recv()
			log.Printf("consumer got %v", v)
		}
	}, nil, kernel.FlagNone)
	if err != nil {
		log.Println("create consumer:", err)
		os.Exit(1)
	}

	watchdogID, err := k.ThreadCreate("watchdog", make([]byte, 256), 0, func(arg any) {
		for {
			k.ThreadSleep(uint64(cfg.TickHz) * 5) // parked until woken by the IRQ below
			log.Println("watchdog pet")
		}
	}, nil, kernel.FlagNone)
	if err != nil {
		log.Println("create watchdog:", err)
		os.Exit(1)
	}

	const watchdogVector = 0
	if err := k.IRQRegister(watchdogVector, func(kk *kernel.Kernel) {
		kk.ThreadWakeup(watchdogID)
	}, 0); err != nil {
		log.Println("register watchdog irq:", err)
		os.Exit(1)
	}

	ticker := port.NewHostTickerHz(cfg.TickHz)
	defer ticker.Stop()
	go func() {
		for range ticker.Ticks() {
			k.Tick()
		}
	}()

	k.Start()

	petEvery := time.Second
	petStop := time.NewTicker(petEvery)
	defer petStop.Stop()
	go func() {
		for range petStop.C {
			k.OnIRQEntry(watchdogVector)
		}
	}()

	time.Sleep(*runFor)
	log.Println("kernelsim: done")
}
