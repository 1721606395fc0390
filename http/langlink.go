package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/fwojciec/wikitxt"
)

// Ensure LangLinkService implements wikitxt.LangLinkService at compile time.
var _ wikitxt.LangLinkService = (*LangLinkService)(nil)

// LangLinkService looks up interlanguage links through the Action API.
type LangLinkService struct {
	client *Client
}

// NewLangLinkService creates a new LangLinkService using client.
func NewLangLinkService(client *Client) *LangLinkService {
	return &LangLinkService{client: client}
}

type langLinksResponse struct {
	Query struct {
		Pages map[string]struct {
			LangLinks []struct {
				Lang  string `json:"lang"`
				Title string `json:"*"`
			} `json:"langlinks"`
		} `json:"pages"`
	} `json:"query"`
	Error *apiError `json:"error"`
}

// LangLink returns the title of the article in language lang.
// Returns ENOTFOUND if the article has no link to that language.
func (s *LangLinkService) LangLink(ctx context.Context, title, lang string) (string, error) {
	u := s.client.apiURLWith(url.Values{
		"action": {"query"},
		"prop":   {"langlinks"},
		"titles": {title},
		"lllang": {lang},
	})

	body, err := s.client.get(ctx, u)
	if err != nil {
		return "", err
	}

	var resp langLinksResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode langlinks response: %w", err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("api error %s: %s", resp.Error.Code, resp.Error.Info)
	}

	for _, page := range resp.Query.Pages {
		for _, ll := range page.LangLinks {
			if ll.Lang == lang && ll.Title != "" {
				return ll.Title, nil
			}
		}
	}
	return "", wikitxt.Errorf(wikitxt.ENOTFOUND, "no %s link for %s", lang, title)
}
