package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/sudo-init-do/artisanhub/internal/platform"
)

// Client talks to the chat platform's HTTP API. It sends what it is told and
// reports lookup misses as platform sentinel errors; retries and rate limits
// stay on the platform side.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{BaseURL: baseURL, Token: token, HTTP: http.DefaultClient}
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bot "+c.Token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errMsg string
		if b, readErr := io.ReadAll(resp.Body); readErr == nil && len(b) > 0 {
			errMsg = string(b)
		}
		if resp.StatusCode == http.StatusNotFound {
			return resp.StatusCode, nil
		}
		if errMsg != "" {
			return resp.StatusCode, fmt.Errorf("platform request failed: status=%d body=%s", resp.StatusCode, errMsg)
		}
		return resp.StatusCode, fmt.Errorf("platform request failed: status=%d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

// Reply answers an interaction with a notice only its author sees.
func (c *Client) Reply(ctx context.Context, in platform.Interaction, msg platform.Message) error {
	payload := struct {
		platform.Message
		Ephemeral bool `json:"ephemeral"`
	}{Message: msg, Ephemeral: true}
	_, err := c.do(ctx, http.MethodPost, "/interactions/"+in.ID+"/reply", payload, nil)
	return err
}

func (c *Client) OpenModal(ctx context.Context, in platform.Interaction, m platform.Modal) error {
	_, err := c.do(ctx, http.MethodPost, "/interactions/"+in.ID+"/modal", m, nil)
	return err
}

func (c *Client) SendDM(ctx context.Context, userID int64, msg platform.Message) error {
	status, err := c.do(ctx, http.MethodPost, "/users/"+strconv.FormatInt(userID, 10)+"/messages", msg, nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return platform.ErrUserNotFound
	}
	return nil
}

func (c *Client) SendChannelMessage(ctx context.Context, channelID int64, msg platform.Message) error {
	status, err := c.do(ctx, http.MethodPost, "/channels/"+strconv.FormatInt(channelID, 10)+"/messages", msg, nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return platform.ErrChannelNotFound
	}
	return nil
}

func (c *Client) CreatePrivateChannel(ctx context.Context, guildID int64, name string, overwrites []platform.Overwrite) (platform.Channel, error) {
	payload := struct {
		Name       string               `json:"name"`
		Private    bool                 `json:"private"`
		Overwrites []platform.Overwrite `json:"overwrites"`
	}{Name: name, Private: true, Overwrites: overwrites}

	var ch platform.Channel
	status, err := c.do(ctx, http.MethodPost, "/guilds/"+strconv.FormatInt(guildID, 10)+"/channels", payload, &ch)
	if err != nil {
		return platform.Channel{}, err
	}
	if status == http.StatusNotFound {
		return platform.Channel{}, platform.ErrChannelNotFound
	}
	return ch, nil
}

func (c *Client) DeleteChannel(ctx context.Context, channelID int64) error {
	status, err := c.do(ctx, http.MethodDelete, "/channels/"+strconv.FormatInt(channelID, 10), nil, nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return platform.ErrChannelNotFound
	}
	return nil
}

func (c *Client) LookupUser(ctx context.Context, userID int64) (platform.User, error) {
	var u platform.User
	status, err := c.do(ctx, http.MethodGet, "/users/"+strconv.FormatInt(userID, 10), nil, &u)
	if err != nil {
		return platform.User{}, err
	}
	if status == http.StatusNotFound {
		return platform.User{}, platform.ErrUserNotFound
	}
	return u, nil
}

func (c *Client) AdminUsers(ctx context.Context, guildID int64) ([]platform.User, error) {
	var users []platform.User
	status, err := c.do(ctx, http.MethodGet, "/guilds/"+strconv.FormatInt(guildID, 10)+"/admins", nil, &users)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, platform.ErrUserNotFound
	}
	return users, nil
}
