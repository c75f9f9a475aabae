package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/masenocturnal/deletecontent/internal/config"
	"github.com/masenocturnal/deletecontent/internal/metrics"
	"github.com/masenocturnal/deletecontent/pipelines/deletecontent"
	"github.com/sevlyar/go-daemon"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newListenCmd(loadConfig func() (*config.HostConfig, error)) *cobra.Command {
	var detach bool

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Run deletion steps received from RabbitMQ",
		RunE: func(cmd *cobra.Command, args []string) error {
			hostConfig, err := loadConfig()
			if err != nil {
				return err
			}

			if detach || hostConfig.Background {
				cntxt := &daemon.Context{
					PidFileName: hostConfig.Daemon.PidFile,
					PidFilePerm: 0644,
					LogFileName: hostConfig.Daemon.LogFile,
					LogFilePerm: 0640,
					WorkDir:     hostConfig.Daemon.WorkDir,
					Umask:       027,
				}
				child, err := cntxt.Reborn()
				if err != nil {
					return err
				}
				if child != nil {
					log.Infof("Daemon started with pid %d", child.Pid)
					return nil
				}
				defer cntxt.Release()
			}

			return listen(hostConfig)
		},
	}

	cmd.Flags().BoolVarP(&detach, "detach", "d", false, "Run in the background")
	return cmd
}

func listen(hostConfig *config.HostConfig) error {
	log.Infof("DeleteContent Daemon Started. Version : %s ", version)

	pipeline, err := deletecontent.New(hostConfig, log.WithField("component", "listener"))
	if err != nil {
		log.Error(err.Error())
		return err
	}
	defer pipeline.Close()

	var server *http.Server
	if hostConfig.Metrics.Listen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		server = &http.Server{Addr: hostConfig.Metrics.Listen, Handler: mux}
		go func() {
			log.Infof("Serving metrics on %s", hostConfig.Metrics.Listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Errorf("Metrics endpoint stopped: %s", err.Error())
			}
		}()
	}

	// create the channel to handle the OS Signal
	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	listenerError := make(chan error, 1)
	go pipeline.StartListener(listenerError)

	select {
	case sig := <-signalChannel:
		log.Infof("Received %s, DeleteContent Shutting Down", sig)
		err = nil
	case err = <-listenerError:
		log.Errorf("Listener stopped: %s", err.Error())
	}

	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
	return err
}
