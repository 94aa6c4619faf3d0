package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	echoapi "github.com/trezcool/hesabu/apps/api/echo"
	"github.com/trezcool/hesabu/core"
	"github.com/trezcool/hesabu/core/attempt"
	"github.com/trezcool/hesabu/core/catalog"
	"github.com/trezcool/hesabu/core/problem"
	"github.com/trezcool/hesabu/core/user"
	emailsvc "github.com/trezcool/hesabu/services/email"
	logsvc "github.com/trezcool/hesabu/services/logger"
	"github.com/trezcool/hesabu/storage/database"
)

func main() {
	rand.Seed(time.Now().UnixNano())

	std := log.New(os.Stdout, "HESABU : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.LoadConfig()
	if err != nil {
		std.Fatalf("loading config: %+v", err)
	}

	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	if err := run(conf, logger); err != nil {
		logger.Fatal("running server", err)
	}
}

func run(conf *core.Config, logger core.Logger) error {
	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer db.Close()
	if err = database.Migrate(db); err != nil {
		return errors.Wrap(err, "migrating database")
	}

	cat, err := catalog.New()
	if err != nil {
		return errors.Wrap(err, "loading catalog")
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	usrRepo := database.NewUserRepository(db)
	usrSvc := user.NewService(usrRepo, mailSvc)
	prbSvc := problem.NewService(database.NewProblemRepository(db), usrRepo)
	attSvc := attempt.NewService(database.NewAttemptRepository(db), usrRepo, cat)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Addr:       conf.Server.Addr,
			Conf:       conf,
			Logger:     logger,
			Catalog:    cat,
			UserSvc:    usrSvc,
			ProblemSvc: prbSvc,
			AttemptSvc: attSvc,
			Shutdown:   shutdown,
		},
	)
	go app.Start()
	logger.Info("server listening at " + conf.Server.Addr)

	sig := <-shutdown
	logger.Info(fmt.Sprintf("%v: starting shutdown", sig))

	ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()
	if err = app.Stop(ctx); err != nil {
		return errors.Wrap(err, "stopping server gracefully")
	}
	return nil
}
