package spotify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"spotcli/internal/config"
)

// callbackResult результат обработки redirect от Spotify
type callbackResult struct {
	token *oauth2.Token
	err   error
}

// Authenticator выполняет интерактивный OAuth вход пользователя
type Authenticator struct {
	auth        *spotifyauth.Authenticator
	redirectURL *url.URL
	state       string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewAuthenticator создает Authenticator из учетных данных приложения
func NewAuthenticator(cfg config.SpotifyConfig, timeout time.Duration, logger *zap.Logger) (*Authenticator, error) {
	redirectURL, err := url.Parse(cfg.RedirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect uri %q: %w", cfg.RedirectURI, err)
	}
	if redirectURL.Host == "" {
		return nil, fmt.Errorf("invalid redirect uri %q: host is required", cfg.RedirectURI)
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithRedirectURL(cfg.RedirectURI),
		spotifyauth.WithScopes(cfg.Scopes()...),
	)

	return &Authenticator{
		auth:        auth,
		redirectURL: redirectURL,
		state:       uuid.NewString(),
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}, nil
}

// AuthURL возвращает адрес страницы входа
func (a *Authenticator) AuthURL() string {
	return a.auth.AuthURL(a.state)
}

// oauthContext подставляет HTTP клиент с таймаутом в обмен токена
func (a *Authenticator) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
}

// callbackHandler обрабатывает redirect и отправляет результат в канал
func (a *Authenticator) callbackHandler(ctx context.Context, results chan<- callbackResult) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := a.auth.Token(a.oauthContext(ctx), a.state, r)
		if err != nil {
			a.logger.Warn("OAuth callback rejected", zap.Error(err))
			http.Error(w, "Couldn't get token", http.StatusForbidden)
		} else {
			fmt.Fprintln(w, "Login completed, you can close this window.")
		}

		select {
		case results <- callbackResult{token: token, err: err}:
		default:
		}
	}
}

// Login запускает локальный сервер на redirect адресе, печатает ссылку
// для входа и ждет callback либо отмену контекста.
func (a *Authenticator) Login(ctx context.Context, out io.Writer) (*spotify.Client, error) {
	listener, err := net.Listen("tcp", a.redirectURL.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", a.redirectURL.Host, err)
	}

	results := make(chan callbackResult, 1)
	path := a.redirectURL.Path
	if path == "" {
		path = "/"
	}

	mux := http.NewServeMux()
	mux.HandleFunc(path, a.callbackHandler(ctx, results))
	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("OAuth callback server failed", zap.Error(err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("Failed to shut down OAuth callback server", zap.Error(err))
		}
	}()

	fmt.Fprintf(out, "Please log in to Spotify by visiting the following page in your browser:\n%s\n", a.AuthURL())
	a.logger.Info("Waiting for OAuth callback", zap.String("addr", a.redirectURL.Host), zap.String("path", path))

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-results:
		if res.err != nil {
			return nil, fmt.Errorf("failed to obtain token: %w", res.err)
		}
		return a.client(ctx, res.token), nil
	}
}

// client создает API клиент с автоматическим обновлением токена
func (a *Authenticator) client(ctx context.Context, token *oauth2.Token) *spotify.Client {
	httpClient := a.auth.Client(a.oauthContext(ctx), token)
	httpClient.Timeout = a.httpClient.Timeout
	return spotify.New(httpClient)
}

// Authenticate выполняет вход пользователя и возвращает клиент Spotify API
func Authenticate(ctx context.Context, cfg config.SpotifyConfig, timeout time.Duration, logger *zap.Logger, out io.Writer) (*spotify.Client, error) {
	a, err := NewAuthenticator(cfg, timeout, logger)
	if err != nil {
		return nil, err
	}

	client, err := a.Login(ctx, out)
	if err != nil {
		return nil, err
	}

	logger.Info("Spotify authentication completed")
	return client, nil
}
