// Package api is the HTTP gateway to the meal-recommendation backend.
// Every operation is a single round trip: no retries, one normalized
// outcome. Callers are expected to have run local validation first, so a
// failure here is either the server rejecting the request (RequestError,
// carrying the server's detail text) or the transport itself failing.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// genericFailureText is used when the server gives no usable reason.
const genericFailureText = "The request could not be completed."

// RequestError is a non-success HTTP status from the backend. Message is
// the server-supplied detail when present.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// Session is what a successful login yields. Token may be empty; the
// backend is not required to issue one.
type Session struct {
	UserID   string
	Username string
	Token    string
}

// Profile carries the dietary profile form fields.
type Profile struct {
	Diets           string
	Allergens       string
	FoodPreferences string
}

// Client talks to the backend. The zero timeout of a bare http.Client
// would leave a dead connection pending forever, so a generous one is set.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates a gateway for the given base URL. log may be nil.
func NewClient(baseURL string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		log: log,
	}
}

// SetBaseURL points the client at a different backend. Used by tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login posts credentials and maps the response onto a Session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	payload, err := c.send(ctx, http.MethodPost, "/login", loginRequest{Email: email, Password: password}, nil)
	if err != nil {
		return nil, err
	}
	return &Session{
		UserID:   stringField(payload, "user_id"),
		Username: stringField(payload, "username"),
		Token:    stringField(payload, "token"),
	}, nil
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account. The client does not need the response body.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	_, err := c.send(ctx, http.MethodPost, "/register", registerRequest{Name: name, Email: email, Password: password}, nil)
	return err
}

type profilePayload struct {
	UserID          string `json:"user_id"`
	Diets           string `json:"diets"`
	Allergens       string `json:"allergens"`
	FoodPreferences string `json:"food_preferences"`
}

// BuildProfilePayload maps the in-memory camelCase form fields onto the
// wire shape. Field order is fixed by the struct, so identical input
// always encodes to identical bytes.
func BuildProfilePayload(userID string, p Profile) ([]byte, error) {
	return json.Marshal(profilePayload{
		UserID:          userID,
		Diets:           p.Diets,
		Allergens:       p.Allergens,
		FoodPreferences: p.FoodPreferences,
	})
}

// SaveProfile stores the dietary profile for the logged-in user.
func (c *Client) SaveProfile(ctx context.Context, userID string, p Profile) error {
	body, err := BuildProfilePayload(userID, p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	_, err = c.send(ctx, http.MethodPost, "/profile", json.RawMessage(body), nil)
	return err
}

// Chat sends one message and returns the bot's reply. The backend takes
// chat input as query parameters, not a body.
func (c *Client) Chat(ctx context.Context, userID, message string) (string, error) {
	q := url.Values{}
	q.Set("user_id", userID)
	q.Set("message", message)

	payload, err := c.send(ctx, http.MethodPost, "/chat", nil, q)
	if err != nil {
		return "", err
	}
	reply, ok := payload["reply"].(string)
	if !ok {
		return "", fmt.Errorf("malformed chat response: missing reply")
	}
	return reply, nil
}

// send performs one round trip and normalizes the outcome.
//   - 2xx: parsed JSON body; a body that is not a JSON object comes back
//     wrapped as {"raw": text}.
//   - other statuses: *RequestError with the extracted server detail.
//   - transport failures: the wrapped underlying error.
func (c *Client) send(ctx context.Context, method, path string, body any, query url.Values) (map[string]any, error) {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	reqID := uuid.NewString()
	c.log.Debug("request",
		zap.String("id", reqID),
		zap.String("method", method),
		zap.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("id", reqID), zap.Error(err))
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := errorDetail(raw)
		c.log.Warn("request rejected",
			zap.String("id", reqID),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", msg))
		return nil, &RequestError{Status: resp.StatusCode, Message: msg}
	}

	payload := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			payload = map[string]any{"raw": string(raw)}
		}
	}

	c.log.Debug("response", zap.String("id", reqID), zap.Int("status", resp.StatusCode))
	return payload, nil
}

// errorDetail extracts a human-readable failure reason from an error body.
// FastAPI-style bodies carry it in "detail"; "error" and "message" are
// accepted as fallbacks. A JSON body with none of those yields the generic
// phrase; a non-JSON body is used verbatim.
func errorDetail(raw []byte) string {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, key := range []string{"detail", "error", "message"} {
			if v, ok := body[key].(string); ok && v != "" {
				return v
			}
		}
		return genericFailureText
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return genericFailureText
}

// stringField reads a payload field as a string. The backend sends numeric
// IDs, so whole numbers are rendered without a fraction.
func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}
