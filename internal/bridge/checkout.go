package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"runtime"
	"strings"

	"botnology/internal/model"
	"botnology/internal/tutor"
)

// Opener hands a URL to something that can show it.
type Opener interface {
	Open(url string) error
}

type OpenerFunc func(url string) error

func (f OpenerFunc) Open(url string) error { return f(url) }

// BrowserOpener opens URLs with the platform's default handler.
type BrowserOpener struct{}

func (BrowserOpener) Open(u string) error {
	u = strings.TrimSpace(u)
	if u == "" {
		return errors.New("empty url")
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", u)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", u)
	default:
		cmd = exec.Command("xdg-open", u)
	}
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Start()
}

type checkoutRequest struct {
	Plan string `json:"plan"`
}

// Checkout asks the API for a hosted checkout session and opens it. Nothing is opened on any
// failure. The returned URL is the one that was opened.
func Checkout(ctx context.Context, c *tutor.Client, plan string, open Opener) (string, error) {
	p, ok := model.ParsePlan(plan)
	if !ok {
		return "", fmt.Errorf("unknown plan %q (expected one of pro, semi_pro, yearly_pro)", plan)
	}
	if p == model.PlanFree {
		return "", errors.New("the FREE plan has no checkout")
	}

	out, err := c.Do(ctx, http.MethodPost, "/api/create-checkout-session", checkoutRequest{Plan: p.CheckoutID()}, true)
	if err != nil {
		return "", fmt.Errorf("checkout: %w", err)
	}
	if out.Err != nil {
		return "", fmt.Errorf("checkout: %w", out.Err)
	}
	url := strings.TrimSpace(out.String("url"))
	if url == "" {
		return "", errors.New("checkout: no checkout url returned")
	}
	if open == nil {
		open = BrowserOpener{}
	}
	if err := open.Open(url); err != nil {
		return url, fmt.Errorf("open checkout: %w", err)
	}
	return url, nil
}
