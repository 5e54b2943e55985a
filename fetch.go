package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

const portalHTTPTimeout = 30 * time.Second

// PortalClient talks to the SIR ticketing portal. Login is form-based and
// the session lives in cookies, so the client keeps its own jar instead of
// sharing the notifier HTTP client.
type PortalClient struct {
	base   string
	user   string
	pass   string
	client *http.Client
}

func NewPortalClient(cfg Config) (*PortalClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &PortalClient{
		base: strings.TrimRight(cfg.PortalURL, "/"),
		user: cfg.PortalUser,
		pass: cfg.PortalPass,
		client: &http.Client{
			Jar:     jar,
			Timeout: portalHTTPTimeout,
		},
	}, nil
}

// Login posts the credentials form. The portal answers 200 even on bad
// credentials; a dead session surfaces later as an empty data table, which
// the pipeline reports per dataset.
func (p *PortalClient) Login() error {
	form := url.Values{
		"usuario": {p.user},
		"senha":   {p.pass},
		"Entrar":  {"Entrar"},
	}
	resp, err := p.client.PostForm(p.base+"/", form)
	if err != nil {
		return fmt.Errorf("portal login: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("portal login: unexpected status %d", resp.StatusCode)
	}
	log.Printf("portal login ok user=%s", p.user)
	return nil
}

// FetchPage GETs one list page and returns the raw HTML.
func (p *PortalClient) FetchPage(pageURL string) (string, error) {
	resp, err := p.client.Get(pageURL)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: unexpected status %d", pageURL, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	return string(body), nil
}
