package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/0xcafe-io/iz"
	"github.com/google/uuid"
	"github.com/pocketpilot/budget-engine/internal/budget"
	"github.com/pocketpilot/budget-engine/internal/contextutil"
	"github.com/pocketpilot/budget-engine/logging"
)

type Api struct {
	Engine *budget.BudgetEngine
}

func NewApi(engine *budget.BudgetEngine) *Api {
	return &Api{
		Engine: engine,
	}
}

// Authentication is handled upstream; handlers trust the X-User-ID
// header the gateway injects.
func (api *Api) requestContext(r *iz.Request) (context.Context, string, bool) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		return nil, "", false
	}
	ctx := contextutil.WithTraceID(r.Context(), uuid.New().String())
	return ctx, userID, true
}

func (api *Api) SaveProfileHandler(r *iz.Request) iz.Responder {
	ctx, userID, ok := api.requestContext(r)
	if !ok {
		return iz.Respond().Status(400).Text("X-User-ID header is required.")
	}

	var profileReq SaveProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&profileReq); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	req, err := profileReq.ToProfileRequest()
	if err != nil {
		return iz.Respond().Status(httpStatusFromError(err)).Text(err.Error())
	}

	if _, err := api.Engine.SaveProfile(ctx, userID, req); err != nil {
		msg := fmt.Sprintf("failed to save profile: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(201).JSON(MessageResponse{Message: "profile saved"})
}

func (api *Api) GetProfileHandler(r *iz.Request) iz.Responder {
	ctx, userID, ok := api.requestContext(r)
	if !ok {
		return iz.Respond().Status(400).Text("X-User-ID header is required.")
	}

	profile, err := api.Engine.GetProfile(ctx, userID)
	if err != nil {
		msg := fmt.Sprintf("failed to get profile: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).JSON(ProfileToHttp(profile))
}

func (api *Api) SaveTransactionHandler(r *iz.Request) iz.Responder {
	ctx, userID, ok := api.requestContext(r)
	if !ok {
		return iz.Respond().Status(400).Text("X-User-ID header is required.")
	}

	var txReq CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&txReq); err != nil {
		logging.Logger.Errorf("Failed to parse save transaction request: %v", err)
		msg := fmt.Sprintf("failed to parse save transaction request: %v", err)
		return iz.Respond().Status(400).Text(msg)
	}

	req, err := txReq.ToTransactionRequest()
	if err != nil {
		return iz.Respond().Status(httpStatusFromError(err)).Text(err.Error())
	}

	txn, err := api.Engine.SaveTransaction(ctx, userID, req)
	if err != nil {
		msg := fmt.Sprintf("failed to create transaction: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(201).JSON(TransactionToHttp(txn))
}

func (api *Api) DeleteTransactionHandler(r *iz.Request) iz.Responder {
	ctx, userID, ok := api.requestContext(r)
	if !ok {
		return iz.Respond().Status(400).Text("X-User-ID header is required.")
	}

	txID := r.PathValue("id")
	if err := api.Engine.DeleteTransaction(ctx, userID, txID); err != nil {
		logging.Logger.Errorf("Failed to delete transaction request: %v", err)
		msg := fmt.Sprintf("failed to delete transaction: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "transaction deleted"})
}

func (api *Api) GetTransactionsHandler(r *iz.Request) iz.Responder {
	ctx, userID, ok := api.requestContext(r)
	if !ok {
		return iz.Respond().Status(400).Text("X-User-ID header is required.")
	}

	params := r.URL.Query()
	from, to, err := parseDateRange(params.Get("from"), params.Get("to"))
	if err != nil {
		msg := fmt.Sprintf("invalid filter parameters: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	ts, err := api.Engine.GetTransactions(ctx, userID, from, to)
	if err != nil {
		logging.Logger.Errorf("Failed to get transactions: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text("failed to get transactions")
	}

	var tsContainer ListTransactionResponse
	tsContainer.Transactions = make([]TransactionItem, 0, len(ts))
	for _, t := range ts {
		tsContainer.Transactions = append(tsContainer.Transactions, TransactionToHttp(t))
	}
	return iz.Respond().Status(200).JSON(tsContainer)
}

func (api *Api) GetPrescriptionHandler(r *iz.Request) iz.Responder {
	ctx, userID, ok := api.requestContext(r)
	if !ok {
		return iz.Respond().Status(400).Text("X-User-ID header is required.")
	}

	prescription, err := api.Engine.GetPrescription(ctx, userID, time.Now().UTC())
	if err != nil {
		logging.Logger.Errorf("Failed to get prescription for user %s: %v", userID, err)
		msg := fmt.Sprintf("failed to get prescription: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	if prescription == nil {
		return iz.Respond().Status(404).JSON(MessageResponse{
			Message: "no prescription yet: log more transactions to unlock your first budget",
		})
	}
	return iz.Respond().Status(200).JSON(prescription)
}

func (api *Api) RegeneratePrescriptionHandler(r *iz.Request) iz.Responder {
	ctx, userID, ok := api.requestContext(r)
	if !ok {
		return iz.Respond().Status(400).Text("X-User-ID header is required.")
	}

	prescription, err := api.Engine.Generate(ctx, userID, time.Now().UTC())
	if err != nil {
		logging.Logger.Errorf("Failed to regenerate prescription for user %s: %v", userID, err)
		msg := fmt.Sprintf("failed to regenerate prescription: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	if prescription == nil {
		return iz.Respond().Status(404).JSON(MessageResponse{
			Message: "no prescription yet: log more transactions to unlock your first budget",
		})
	}
	return iz.Respond().Status(200).JSON(prescription)
}

func (api *Api) GetStrategyHandler(r *iz.Request) iz.Responder {
	ctx, userID, ok := api.requestContext(r)
	if !ok {
		return iz.Respond().Status(400).Text("X-User-ID header is required.")
	}

	strategy, split, err := api.Engine.StrategyFor(ctx, userID, time.Now().UTC())
	if err != nil {
		msg := fmt.Sprintf("failed to classify strategy: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).JSON(StrategyResponse{
		Strategy: string(strategy),
		Needs:    split.Needs,
		Wants:    split.Wants,
		Savings:  split.Savings,
	})
}

func parseDateRange(fromStr, toStr string) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := now
	if fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid 'from' date %q", fromStr)
		}
		from = parsed
	}
	if toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid 'to' date %q", toStr)
		}
		to = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return from, to, nil
}
