// Package handler exposes the session authenticator over HTTP: login, logout, and the current identity.
package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MohamedAliSmk/pos-app/internal/docstore"
	"github.com/MohamedAliSmk/pos-app/internal/identity/service"
	"github.com/MohamedAliSmk/pos-app/internal/server/middleware"
)

// ErrMalformedRequestBody is returned when a JSON login body cannot be parsed.
var ErrMalformedRequestBody = errors.New("malformed request body")

// Response messages. Login failures never say which credential was wrong.
const (
	msgMalformedBody = "Failed to parse JSON body"
	msgMissingParams = "Missing required parameters"
	msgInvalidSite   = "Invalid Site URL"
	msgInvalidCreds  = "Invalid login credentials"
	msgLoginFailed   = "Login failed"
	msgLoggedOut     = "Logged out successfully"
	msgUserNotFound  = "User not found"
	msgProfileFailed = "Unable to load profile"
)

// AuthService is the subset of *service.AuthService used by the handler.
type AuthService interface {
	Login(ctx context.Context, siteURL, username, password string) (*service.LoginResult, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, userID string) (service.UserSummary, *service.POSProfile, error)
}

// Handler serves the auth routes.
type Handler struct {
	auth AuthService
}

// NewHandler returns a Handler backed by auth.
func NewHandler(auth AuthService) *Handler {
	return &Handler{auth: auth}
}

type loginRequest struct {
	SiteURL string `json:"site_url" form:"site_url"`
	Usr     string `json:"usr" form:"usr"`
	Pswd    string `json:"pswd" form:"pswd"`
}

type userJSON struct {
	UserID    string   `json:"user_id"`
	Customer  string   `json:"customer,omitempty"`
	FullName  string   `json:"full_name"`
	Email     string   `json:"email"`
	UserImage string   `json:"user_image,omitempty"`
	Roles     []string `json:"roles"`
}

type posProfileJSON struct {
	CompanyAddress   string   `json:"company_address,omitempty"`
	CustomLogo       string   `json:"custom_logo,omitempty"`
	CRNo             string   `json:"crno,omitempty"`
	GSM              string   `json:"gsm,omitempty"`
	POBox            string   `json:"p_o_box,omitempty"`
	Address          string   `json:"address,omitempty"`
	Terms            string   `json:"terms,omitempty"`
	SellingPriceList string   `json:"selling_price_list,omitempty"`
	ItemGroups       []string `json:"item_groups,omitempty"`
}

type loginResponse struct {
	Status    string          `json:"status"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Profile   *posProfileJSON `json:"pos_profile_dict"`
	User      userJSON        `json:"user"`
}

type meResponse struct {
	Status    string          `json:"status"`
	SessionID string          `json:"session_id,omitempty"`
	Profile   *posProfileJSON `json:"pos_profile_dict"`
	User      userJSON        `json:"user"`
}

// Login authenticates site_url, usr, and pswd taken from the query string, a form body, or a JSON body.
func (h *Handler) Login(c *gin.Context) {
	req, err := bindLogin(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, msgMalformedBody)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.SiteURL, req.Usr, req.Pswd)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingParameters):
			respondError(c, http.StatusBadRequest, msgMissingParams)
		case errors.Is(err, service.ErrInvalidSite):
			respondError(c, http.StatusForbidden, msgInvalidSite)
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, http.StatusUnauthorized, msgInvalidCreds)
		default:
			log.Printf("identity: login failed: %v", err)
			respondError(c, http.StatusInternalServerError, msgLoginFailed)
		}
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Status:    "success",
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Profile:   toPOSProfileJSON(result.Profile),
		User:      toUserJSON(result.User),
	})
}

// Logout revokes the Bearer token, if any, and always reports success.
func (h *Handler) Logout(c *gin.Context) {
	_ = h.auth.Logout(c.Request.Context(), middleware.BearerToken(c.GetHeader("Authorization")))
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": msgLoggedOut})
}

// Me returns the caller's identity summary and POS profile. The route must require authentication.
func (h *Handler) Me(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, middleware.MsgMissingBearer)
		return
	}
	summary, profile, err := h.auth.Profile(c.Request.Context(), id.Subject)
	if err != nil {
		if errors.Is(err, docstore.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, msgUserNotFound)
			return
		}
		log.Printf("identity: load profile for %s failed: %v", id.Subject, err)
		respondError(c, http.StatusInternalServerError, msgProfileFailed)
		return
	}
	c.JSON(http.StatusOK, meResponse{
		Status:    "success",
		SessionID: id.SessionID,
		Profile:   toPOSProfileJSON(profile),
		User:      toUserJSON(summary),
	})
}

// bindLogin reads the login fields. A JSON body fills the request first; query and form
// values fill any field the body left empty. A JSON body that does not parse is
// ErrMalformedRequestBody.
func bindLogin(c *gin.Context) (loginRequest, error) {
	var req loginRequest
	if c.ContentType() == gin.MIMEJSON && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			return loginRequest{}, ErrMalformedRequestBody
		}
	}
	req.SiteURL = orValue(req.SiteURL, c, "site_url")
	req.Usr = orValue(req.Usr, c, "usr")
	req.Pswd = orValue(req.Pswd, c, "pswd")
	return req, nil
}

func orValue(current string, c *gin.Context, key string) string {
	if current != "" {
		return current
	}
	if v := c.PostForm(key); v != "" {
		return v
	}
	return c.Query(key)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": "error", "message": message})
}

func toUserJSON(u service.UserSummary) userJSON {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return userJSON{
		UserID:    u.UserID,
		Customer:  u.Customer,
		FullName:  u.FullName,
		Email:     u.Email,
		UserImage: u.UserImage,
		Roles:     roles,
	}
}

func toPOSProfileJSON(p *service.POSProfile) *posProfileJSON {
	if p == nil {
		return nil
	}
	return &posProfileJSON{
		CompanyAddress:   p.CompanyAddress,
		CustomLogo:       p.CustomLogo,
		CRNo:             p.CRNo,
		GSM:              p.GSM,
		POBox:            p.POBox,
		Address:          p.Address,
		Terms:            p.Terms,
		SellingPriceList: p.PriceList,
		ItemGroups:       p.ItemGroups,
	}
}
