package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"padel-league/internal/config"
	"padel-league/internal/constants"
)

const telegramAPIBase = "https://api.telegram.org"

// Client posts league announcements to a Telegram chat. When no bot token is
// configured every call is a no-op, so the rest of the app never has to check.
type Client struct {
	httpClient *fasthttp.Client
	token      string
	chatID     string
	logger     zerolog.Logger
}

func NewClient(cfg *config.Config, logger zerolog.Logger) *Client {
	c := &Client{
		httpClient: &fasthttp.Client{
			ReadTimeout:  constants.NotifyTimeout,
			WriteTimeout: constants.NotifyTimeout,
		},
		token:  cfg.TelegramBotToken,
		chatID: cfg.TelegramChatID,
		logger: logger,
	}
	if !c.Enabled() {
		logger.Info().Msg("telegram notifications disabled, no bot token configured")
	}
	return c
}

func (c *Client) Enabled() bool {
	return c.token != "" && c.chatID != ""
}

// Announce sends a message to the configured chat. Errors are logged, never
// returned: a dropped announcement must not fail the operation that caused it.
func (c *Client) Announce(text string) {
	if !c.Enabled() {
		return
	}

	body, err := json.Marshal(map[string]string{
		"chat_id":    c.chatID,
		"text":       text,
		"parse_mode": "HTML",
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to encode telegram payload")
		return
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fmt.Sprintf("%s/bot%s/sendMessage", telegramAPIBase, c.token))
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	if err := c.httpClient.DoTimeout(req, resp, constants.NotifyTimeout); err != nil {
		c.logger.Error().Err(err).Msg("failed to send telegram message")
		return
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error().
			Int("status", resp.StatusCode()).
			Str("body", string(resp.Body())).
			Msg("telegram API rejected message")
		return
	}

	c.logger.Debug().Msg("telegram message sent")
}

// AnnounceAsync fires Announce on its own goroutine so callers never block on
// the network.
func (c *Client) AnnounceAsync(text string) {
	if !c.Enabled() {
		return
	}
	go func() {
		start := time.Now()
		c.Announce(text)
		c.logger.Debug().Dur("took", time.Since(start)).Msg("async announcement done")
	}()
}
