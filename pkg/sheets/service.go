package sheets

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Service appends rows to a Google Sheets spreadsheet. Used for the
// subscription tracking feature.
type Service struct {
	clientID     string
	clientSecret string
}

func NewService(clientID, clientSecret string) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

func (s *Service) getSheetsService(ctx context.Context, accessToken, refreshToken string) (*sheets.Service, error) {
	token := &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}
	if refreshToken != "" {
		token.Expiry = time.Now()
	}

	config := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
	}

	client := oauth2.NewClient(ctx, config.TokenSource(ctx, token))

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %v", err)
	}
	return srv, nil
}

// AppendRows appends rows to the first sheet of the spreadsheet.
func (s *Service) AppendRows(ctx context.Context, accessToken, refreshToken, spreadsheetID string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}

	srv, err := s.getSheetsService(ctx, accessToken, refreshToken)
	if err != nil {
		return err
	}

	valueRange := &sheets.ValueRange{Values: rows}
	_, err = srv.Spreadsheets.Values.Append(spreadsheetID, "A1", valueRange).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("unable to append rows: %v", err)
	}
	return nil
}
