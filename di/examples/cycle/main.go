package main

import (
	"errors"
	"fmt"

	"github.com/gocrud/injector/di"
	"github.com/gocrud/injector/logging"
)

type Ping interface{ Name() string }
type Pong interface{ Name() string }

type ping struct {
	di.Component
	pong Pong
}

func (*ping) Name() string { return "ping" }

type pong struct {
	di.Component
	ping Ping
}

func (*pong) Name() string { return "pong" }

// unmarked 没有嵌入 di.Component
type unmarked struct{}

type Unmarked interface{}

func main() {
	logger := logging.NewLoggingBuilder().
		SetMinimumLevel(logging.LogLevelDebug).
		AddConsole().
		Build().
		CreateLogger("example")

	b := di.NewBuilder(di.WithLogger(logger))
	di.MustBind[Ping, *ping](b, di.New[ping],
		di.Slot(func(p *ping, other Pong) { p.pong = other }))
	di.MustBind[Pong, *pong](b, di.New[pong],
		di.Slot(func(p *pong, other Ping) { p.ping = other }))
	di.MustBind[Unmarked, *unmarked](b, di.New[unmarked])

	// Build 会以 WARN 报告 Ping -> Pong -> Ping
	c, err := b.Build()
	if err != nil {
		panic(err)
	}

	p := di.MustResolve[Ping](c).(*ping)
	fmt.Println("cycle closed:", p.pong.(*pong).ping == Ping(p))

	_, err = di.Resolve[Unmarked](c)
	var marker *di.MissingInjectionMarkerError
	fmt.Println("missing marker:", errors.As(err, &marker), err)
}
