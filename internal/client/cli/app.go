// Package cli implements the khronos command-line client.
//
// Every command talks to the server through api.Client. The access token
// obtained by register or login is kept in a TokenStore and sent with the
// commands that need it.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/sibeni-li/khronos/internal/client/api"
	"github.com/sibeni-li/khronos/internal/client/config"
	"github.com/sibeni-li/khronos/internal/common"
)

// defaultTokenStore is a test seam for config.DefaultTokenStore.
var defaultTokenStore = config.DefaultTokenStore

type App struct {
	config  *config.Config
	client  *api.Client
	tokens  *config.TokenStore
	reader  *bufio.Reader
	out     io.Writer
	stdinFd int
}

func NewApp(c *config.Config, tokens *config.TokenStore, in io.Reader, out io.Writer) *App {
	fd := -1
	if f, ok := in.(*os.File); ok {
		fd = int(f.Fd())
	}
	return &App{
		config:  c,
		client:  api.New(c.ServerURL, &http.Client{Timeout: c.RequestTimeout}),
		tokens:  tokens,
		reader:  bufio.NewReader(in),
		out:     out,
		stdinFd: fd,
	}
}

// authorize loads the saved token into the API client.
func (a *App) authorize() error {
	token, err := a.tokens.Load()
	if err != nil {
		return err
	}
	a.client.SetToken(token)
	return nil
}

// sessionError turns a 401 on an authenticated call into a hint to log in again.
func sessionError(err error) error {
	if errors.Is(err, common.ErrorUnauthorized) {
		return fmt.Errorf("session expired or invalid, run `khronos login`: %w", err)
	}
	return err
}
