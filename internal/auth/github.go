package auth

import (
	"context"
	"errors"
	"strconv"
)

const githubAccept = "application/vnd.github+json"

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// fetchGitHub decodes the GitHub user response. GitHub profiles often
// hide the email, so a missing public email triggers a secondary lookup
// against the emails endpoint, preferring the primary verified address,
// then any verified one. A failed secondary lookup leaves the email
// empty; the upsert rejects email-less profiles later.
func (f *ProfileFetcher) fetchGitHub(ctx context.Context, cfg ProviderConfig, accessToken string) (*Profile, error) {
	var user githubUser
	if err := f.getJSON(ctx, cfg.UserInfoEndpoint, accessToken, githubAccept, &user); err != nil {
		return nil, err
	}

	if user.ID == 0 {
		return nil, errors.Join(ErrProfileFetch, errors.New("github user response missing id"))
	}

	email := user.Email
	if email == "" {
		email = f.lookupGitHubEmail(ctx, cfg.EmailsEndpoint, accessToken)
	}

	name := user.Name
	if name == "" {
		name = user.Login
	}

	return &Profile{
		Email:          email,
		Name:           name,
		AvatarURL:      user.AvatarURL,
		ProviderUserID: strconv.FormatInt(user.ID, 10),
	}, nil
}

// lookupGitHubEmail selects an address from the authenticated emails
// list: primary-and-verified first, else any verified, else empty.
func (f *ProfileFetcher) lookupGitHubEmail(ctx context.Context, emailsURL, accessToken string) string {
	var emails []githubEmail
	if err := f.getJSON(ctx, emailsURL, accessToken, githubAccept, &emails); err != nil {
		return ""
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email
		}
	}
	return ""
}
