package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/gosher-studios/boom/client"
	"github.com/gosher-studios/boom/config"
	"github.com/gosher-studios/boom/game"
	"github.com/gosher-studios/boom/logger"
	"github.com/gosher-studios/boom/protocol"
	"github.com/gosher-studios/boom/replica"
	"github.com/gosher-studios/boom/web"
	"github.com/gosher-studios/boom/words"
)

func main() {
	cfg := config.Load()

	connect := flag.String("connect", "", "join a game at host:port instead of hosting one")
	name := flag.String("name", "", "display name when joining")
	addr := flag.String("addr", cfg.Addr, "TCP game endpoint when hosting")
	httpAddr := flag.String("http", cfg.HTTPAddr, "ops endpoint when hosting")
	debug := flag.Bool("debug", cfg.Debug, "debug logging")
	flag.Parse()

	log := logger.New(*debug)

	if *connect != "" {
		runClient(log, *connect, *name)
		return
	}
	runServer(log, cfg, *addr, *httpAddr)
}

func runServer(log zerolog.Logger, cfg config.Config, addr, httpAddr string) {
	dict, phrases, err := words.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading word data")
	}
	log.Info().Int("words", dict.Len()).Int("phrases", phrases.Len()).Msg("word data loaded")

	srv := game.New(game.Settings{
		MaxPlayers:    cfg.MaxPlayers,
		TimerLength:   cfg.TimerLength,
		TimeIncrease:  cfg.TimeIncrease,
		StartingLives: cfg.StartingLives,
		TickInterval:  cfg.TickInterval,
		WriteTimeout:  cfg.WriteTimeout,
	}, dict, phrases, log)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", addr).Msg("listen failed")
	}

	stop := make(chan struct{})
	go srv.RunLoop(stop)

	router := web.NewRouter(srv, log)
	go func() {
		if err := router.Run(httpAddr); err != nil {
			log.Error().Err(err).Msg("ops endpoint stopped")
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info().Msg("shutting down")
		close(stop)
		ln.Close()
	}()

	if err := srv.Serve(ln); err != nil {
		log.Fatal().Err(err).Msg("serve failed")
	}
}

// runClient joins headless: chat lines go to stdout, stdin lines are
// sent as chat, and lines starting with '!' are played as a word.
func runClient(log zerolog.Logger, addr, name string) {
	if name == "" {
		log.Fatal().Msg("joining requires -name")
	}

	c, err := client.Dial(addr, name)
	if err != nil {
		log.Fatal().Err(err).Str("addr", addr).Msg("connect failed")
	}
	defer c.Close()

	c.OnChange(func(ev protocol.Event) {
		switch ev.Op {
		case protocol.OpChat, protocol.OpPlayerJoin, protocol.OpPlayerLeave:
			c.View(func(r *replica.Replica) {
				if len(r.Chat) > 0 {
					fmt.Println(r.Chat[len(r.Chat)-1])
				}
			})
		case protocol.OpNextPlayer:
			if ev.ID == c.ID() {
				fmt.Printf("your turn! phrase: %q\n", ev.Phrase)
			}
		case protocol.OpIncorrect:
			c.View(func(r *replica.Replica) {
				if r.Current == c.ID() {
					fmt.Println("incorrect, try again")
				}
			})
		}
	})

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := scanner.Text()
			if len(line) > 1 && line[0] == '!' {
				for _, r := range line[1:] {
					c.SendLetter(r)
				}
				c.SendSubmit()
				continue
			}
			c.SendChat(line)
		}
	}()

	if err := c.Run(); err != nil {
		log.Info().Err(err).Msg("disconnected")
	}
}
