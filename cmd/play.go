package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidshelf/vidshelf/color"
	"github.com/vidshelf/vidshelf/icon"
	"github.com/vidshelf/vidshelf/internal/app"
	"github.com/vidshelf/vidshelf/key"
	"github.com/vidshelf/vidshelf/log"
	"github.com/vidshelf/vidshelf/player"
	"github.com/vidshelf/vidshelf/session"
	"github.com/vidshelf/vidshelf/style"
	"github.com/vidshelf/vidshelf/util"
	"github.com/vidshelf/vidshelf/video"
)

func init() {
	rootCmd.AddCommand(playCmd)
}

var errNothingToContinue = errors.New("nothing to continue, pass a url or name")

// continueTarget picks the most recently played video still in the library.
func continueTarget(a *app.App) (video.Entry, error) {
	for _, row := range a.Recent.List(0) {
		if entry, ok := a.Library.Get(row.URL).Get(); ok {
			return entry, nil
		}
	}
	return video.Entry{}, errNothingToContinue
}

var playCmd = &cobra.Command{
	Use:   "play [url|name]",
	Short: "Play a video and continue through the library",
	Long: `Play a video in the external player. Without an argument the most recently
played video is continued. When the video ends the next one in the library starts.`,
	Run: func(cmd *cobra.Command, args []string) {
		binary := viper.GetString(key.PlayerBinary)
		CheckDependencies(binary)

		a := application(cmd)

		var (
			entry video.Entry
			err   error
		)
		if len(args) == 0 {
			entry, err = continueTarget(a)
		} else {
			entry, err = resolveVideo(a.Library, strings.Join(args, " "))
		}
		handleErr(err)

		controller := a.NewSession(player.New(binary))
		err = runSession(cmd, controller, entry)

		controller.Flush()
		if closeErr := controller.Close(); closeErr != nil {
			log.Warnf("close player: %v", closeErr)
		}
		handleErr(err)
	},
}

func runSession(cmd *cobra.Command, controller *session.Controller, entry video.Entry) error {
	changed := make(chan struct{}, 1)
	unsubscribe := controller.Subscribe(func(session.Status) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	if err := controller.Select(entry.URL); err != nil {
		return err
	}

	var (
		announced string
		erase     = func() {}
		exited    = playerExited(controller)
	)
	defer func() { erase() }()

	for {
		status := controller.Status()

		switch status.State {
		case session.Idle:
			erase()
			success(cmd, "reached the end of the library")
			return nil
		case session.PendingResume:
			erase()
			if err := askResume(controller, status); err != nil {
				return err
			}
			continue
		case session.Failed:
			erase()
			quit, err := askRecover(cmd, controller, status)
			if err != nil || quit {
				return err
			}
			continue
		case session.Playing, session.Paused:
			current := status.Video.MustGet()
			if announced != current.URL {
				announced = current.URL
				erase()
				erase = util.PrintErasable(fmt.Sprintf("%s %s %s",
					style.Fg(color.Accent)(icon.Get(icon.Video)),
					style.Bold(current.Name),
					style.Faint("(close the player to stop)"),
				))
			}
		}

		select {
		case <-changed:
		case <-exited:
			erase()
			return nil
		case <-interrupt:
			erase()
			return nil
		}
	}
}

// playerExited returns a channel closed when the player process of the session goes away.
func playerExited(controller *session.Controller) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		<-controller.Wait()
		close(done)
	}()
	return done
}

func askResume(controller *session.Controller, status session.Status) error {
	record := status.Saved.MustGet()
	options := []string{
		fmt.Sprintf("Resume from %s", util.FormatSeconds(record.CurrentTime)),
		"Start over",
	}

	var choice int
	err := survey.AskOne(&survey.Select{
		Message: fmt.Sprintf("%s was %.0f%% watched", status.Video.MustGet().Name, record.ProgressPercent),
		Options: options,
	}, &choice)
	if err != nil {
		return err
	}

	if choice == 0 {
		return controller.Resume()
	}
	return controller.StartOver()
}

func askRecover(cmd *cobra.Command, controller *session.Controller, status session.Status) (quit bool, err error) {
	warn(cmd, "%v", status.Err)

	var choice string
	err = survey.AskOne(&survey.Select{
		Message: "What now?",
		Options: []string{"Retry", "Skip", "Quit"},
	}, &choice)
	if err != nil {
		return true, err
	}

	switch choice {
	case "Retry":
		return false, controller.Retry()
	case "Skip":
		return false, controller.Skip()
	default:
		return true, nil
	}
}
