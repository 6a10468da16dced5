package brokerage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apperrors "tradepilot/internal/errors"
	"tradepilot/internal/logger"
)

const (
	koreaInvestmentProdURL    = "https://openapi.koreainvestment.com:9443"
	koreaInvestmentSandboxURL = "https://openapivts.koreainvestment.com:29443"

	// tr_id for the balance inquiry differs between real and paper trading.
	balanceTrIDProd    = "TTTC8434R"
	balanceTrIDSandbox = "VTTC8434R"
)

// KoreaInvestment implements Adapter for the Korea Investment & Securities
// open API. Only the first page of the balance inquiry is fetched; the
// continuation cursors are left empty.
type KoreaInvestment struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	production bool
}

// NewKoreaInvestment creates a Korea Investment adapter. useProduction
// selects the real-trading host; otherwise the paper-trading host is used.
func NewKoreaInvestment(httpClient *http.Client, useProduction bool) *KoreaInvestment {
	baseURL := koreaInvestmentSandboxURL
	if useProduction {
		baseURL = koreaInvestmentProdURL
	}
	return &KoreaInvestment{httpClient: httpClient, baseURL: baseURL, production: useProduction}
}

// Name returns the brokerage's display name.
func (k *KoreaInvestment) Name() string { return "한국투자증권" }

// ParseAccountNumber splits an account number of the form XXXXXXXX-XX into
// the customer number (CANO) and account product code (ACNT_PRDT_CD).
func ParseAccountNumber(accountNumber string) (cano, productCode string, err error) {
	parts := strings.Split(accountNumber, "-")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", apperrors.ErrInvalidAccountFormat
	}
	return parts[0], parts[1], nil
}

// tokenResponse is the OAuth token issuance response body.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// balanceResponse is the envelope wrapping the balance inquiry result.
type balanceResponse struct {
	RtCd    string        `json:"rt_cd"`
	Msg1    string        `json:"msg1"`
	Output1 []balanceItem `json:"output1"`
}

// balanceItem is one position in the balance inquiry result. The API
// returns all numeric fields as strings.
type balanceItem struct {
	Pdno        string `json:"pdno"`
	PrdtName    string `json:"prdt_name"`
	HldgQty     string `json:"hldg_qty"`
	PchsAvgPric string `json:"pchs_avg_pric"`
	Prpr        string `json:"prpr"`
	EvluPflsRt  string `json:"evlu_pfls_rt"`
}

// FetchHoldings issues an access token, queries the balance inquiry
// endpoint, and normalizes the result.
func (k *KoreaInvestment) FetchHoldings(ctx context.Context, creds Credentials) ([]Holding, error) {
	token, err := k.issueToken(ctx, creds)
	if err != nil {
		return nil, err
	}

	cano, productCode, err := ParseAccountNumber(creds.AccountNumber)
	if err != nil {
		return nil, err
	}

	return k.queryBalance(ctx, creds, token, cano, productCode)
}

// issueToken exchanges the app key/secret for an access token.
func (k *KoreaInvestment) issueToken(ctx context.Context, creds Credentials) (string, error) {
	body, err := json.Marshal(map[string]string{
		"grant_type": "client_credentials",
		"appkey":     creds.AppKey,
		"appsecret":  creds.AppSecret,
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrBrokerageToken, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.baseURL+"/oauth2/tokenP", bytes.NewReader(body))
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrBrokerageToken, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrBrokerageToken, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorText, _ := io.ReadAll(resp.Body)
		logger.Get().Errorw("token request failed",
			"status", resp.StatusCode,
			"body", string(errorText),
		)
		return "", apperrors.WithMessage(apperrors.ErrBrokerageToken,
			fmt.Sprintf("토큰 발급 실패: %d", resp.StatusCode))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", apperrors.Wrap(apperrors.ErrBrokerageToken, err)
	}
	return token.AccessToken, nil
}

// queryBalance fetches a single page of the balance inquiry and normalizes
// each position with a positive holding quantity.
func (k *KoreaInvestment) queryBalance(ctx context.Context, creds Credentials, token, cano, productCode string) ([]Holding, error) {
	params := url.Values{
		"CANO":                  {cano},
		"ACNT_PRDT_CD":          {productCode},
		"AFHR_FLPR_YN":          {"N"},
		"OFL_YN":                {""},
		"INQR_DVSN":             {"02"},
		"UNPR_DVSN":             {"01"},
		"FUND_STTL_ICLD_YN":     {"N"},
		"FNCG_AMT_AUTO_RDPT_YN": {"N"},
		"PRCS_DVSN":             {"01"},
		"CTX_AREA_FK100":        {""},
		"CTX_AREA_NK100":        {""},
	}

	endpoint := k.baseURL + "/uapi/domestic-stock/v1/trading/inquire-balance?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrBrokerageQuery, err)
	}

	trID := balanceTrIDSandbox
	if k.production {
		trID = balanceTrIDProd
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("authorization", "Bearer "+token)
	req.Header.Set("appkey", creds.AppKey)
	req.Header.Set("appsecret", creds.AppSecret)
	req.Header.Set("tr_id", trID)

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrBrokerageQuery, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorText, _ := io.ReadAll(resp.Body)
		logger.Get().Errorw("balance request failed",
			"status", resp.StatusCode,
			"body", string(errorText),
		)
		return nil, apperrors.WithMessage(apperrors.ErrBrokerageQuery,
			fmt.Sprintf("잔고 조회 실패: %d", resp.StatusCode))
	}

	var balance balanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&balance); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrBrokerageQuery, err)
	}

	if balance.RtCd != "0" {
		return nil, apperrors.WithMessage(apperrors.ErrBrokerageRejected, balance.Msg1)
	}

	accountName := k.Name() + " " + productCode

	holdings := make([]Holding, 0, len(balance.Output1))
	for _, item := range balance.Output1 {
		qty, err := strconv.ParseInt(strings.TrimSpace(item.HldgQty), 10, 64)
		if err != nil || qty <= 0 {
			continue
		}
		holdings = append(holdings, Holding{
			StockCode:    item.Pdno,
			StockName:    item.PrdtName,
			AccountName:  accountName,
			Quantity:     qty,
			AvgPrice:     parseDecimal(item.PchsAvgPric),
			CurrentPrice: parseDecimal(item.Prpr),
			ProfitRate:   parseDecimal(item.EvluPflsRt),
		})
	}

	return holdings, nil
}

// parseDecimal parses a numeric string from the brokerage, treating
// malformed or empty values as zero.
func parseDecimal(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
