package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bobmccarthy/chainfolio/internal/common"
	"github.com/bobmccarthy/chainfolio/internal/models"
	"github.com/bobmccarthy/chainfolio/internal/services/positions"
)

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// --- Trade handlers ---

func (s *Server) handleTradesImport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Trades []models.TradeRecord `json:"trades"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if len(req.Trades) == 0 {
		WriteError(w, http.StatusBadRequest, "No trades provided")
		return
	}

	for i, t := range req.Trades {
		if t.ID == "" || t.WalletAddress == "" {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("Trade at index %d is missing id or wallet_address", i))
			return
		}
		if !models.ValidTradeType(t.Type) {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("Trade %s has unknown type %q", t.ID, t.Type))
			return
		}
	}

	if err := s.app.Storage.TradeStore().SaveTrades(r.Context(), req.Trades); err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to save trades: %v", err))
		return
	}

	s.logger.Info().Int("trades", len(req.Trades)).Msg("Trades imported")
	WriteJSON(w, http.StatusOK, map[string]interface{}{"imported": len(req.Trades)})
}

// --- Position handlers ---

func (s *Server) handlePositionsCalculate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	ctx := r.Context()
	wallet := r.URL.Query().Get("wallet")

	var trades []models.TradeRecord
	var err error
	if wallet != "" {
		trades, err = s.app.Storage.TradeStore().GetTrades(ctx, wallet)
	} else {
		trades, err = s.app.Storage.TradeStore().GetAllTrades(ctx)
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load trades: %v", err))
		return
	}

	var result *models.PositionCalculationResult
	if wallet != "" {
		result = s.app.Positions.Calculate(ctx, trades, wallet)
	} else {
		result = s.app.Positions.CalculateAll(ctx, trades)
	}

	if err := s.saveBooks(r, result); err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to save positions: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// saveBooks persists calculation output grouped per wallet.
func (s *Server) saveBooks(r *http.Request, result *models.PositionCalculationResult) error {
	books := map[string]*models.PositionBook{}
	walletByPosition := map[string]string{}
	now := time.Now()

	for _, p := range result.Positions {
		walletByPosition[p.ID] = p.WalletAddress
		book, ok := books[p.WalletAddress]
		if !ok {
			book = &models.PositionBook{
				WalletAddress:  p.WalletAddress,
				Positions:      []models.Position{},
				PositionTrades: []models.PositionTrade{},
				CalculatedAt:   now,
			}
			books[p.WalletAddress] = book
		}
		book.Positions = append(book.Positions, p)
	}
	for _, pt := range result.PositionTrades {
		if book, ok := books[walletByPosition[pt.PositionID]]; ok {
			book.PositionTrades = append(book.PositionTrades, pt)
		}
	}

	for _, book := range books {
		if err := s.app.Storage.PositionStore().SaveBook(r.Context(), book); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) handlePositionsGet(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	wallet := r.URL.Query().Get("wallet")
	if wallet == "" {
		WriteError(w, http.StatusBadRequest, "wallet query parameter is required")
		return
	}

	book, err := s.app.Storage.PositionStore().GetBook(r.Context(), wallet)
	if err != nil {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("No positions for wallet %s: %v", wallet, err))
		return
	}

	WriteJSON(w, http.StatusOK, book)
}

func (s *Server) handleValidateGrouping(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Wallet   string               `json:"wallet"`
		Trades   []models.TradeRecord `json:"trades"`
		Grouping map[string][]string  `json:"grouping"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if len(req.Grouping) == 0 {
		WriteError(w, http.StatusBadRequest, "grouping is required")
		return
	}

	trades := req.Trades
	if len(trades) == 0 {
		var err error
		if req.Wallet != "" {
			trades, err = s.app.Storage.TradeStore().GetTrades(r.Context(), req.Wallet)
		} else {
			trades, err = s.app.Storage.TradeStore().GetAllTrades(r.Context())
		}
		if err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load trades: %v", err))
			return
		}
	}

	report := s.app.Positions.ValidateManualGrouping(trades, req.Grouping)
	WriteJSON(w, http.StatusOK, report)
}

func (s *Server) handlePositionsChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	wallet := r.URL.Query().Get("wallet")
	if wallet == "" {
		WriteError(w, http.StatusBadRequest, "wallet query parameter is required")
		return
	}

	book, err := s.app.Storage.PositionStore().GetBook(r.Context(), wallet)
	if err != nil {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("No positions for wallet %s: %v", wallet, err))
		return
	}

	points := positions.BuildPnLSeries(book.Positions)
	png, err := positions.RenderRealizedPnLChart(points)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Cannot render chart: %v", err))
		return
	}

	// Keep a copy next to the data for report embedding.
	if err := s.app.Storage.WriteRaw("charts", wallet+"-pnl.png", png); err != nil {
		s.logger.Warn().Err(err).Str("wallet", wallet).Msg("Failed to persist chart")
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
