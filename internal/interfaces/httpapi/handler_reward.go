package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/fanarena/contest-engine/internal/domain/reward"
	"github.com/fanarena/contest-engine/internal/usecase"
)

func (h *Handler) DistributeRewards(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DistributeRewards")
	defer span.End()

	contestID := r.PathValue("contestID")
	rewards, err := h.rewardService.DistributeRewards(ctx, contestID)
	if err != nil {
		h.logger.WarnContext(ctx, "distribute rewards failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]userRewardDTO, 0, len(rewards))
	for _, item := range rewards {
		items = append(items, userRewardToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ClaimReward(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClaimReward")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	rewardID := r.PathValue("rewardID")
	claimed, err := h.rewardService.ClaimReward(ctx, principal.UserID, rewardID)
	if err != nil {
		h.logger.WarnContext(ctx, "claim reward failed",
			"user_id", principal.UserID, "reward_id", rewardID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userRewardToDTO(claimed))
}

func (h *Handler) ListMyRewards(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyRewards")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	var (
		rewards []reward.UserReward
		err     error
	)
	switch status := r.URL.Query().Get("status"); status {
	case "":
		rewards, err = h.rewardService.ListUserRewards(ctx, principal.UserID)
	case string(reward.RewardPending):
		rewards, err = h.rewardService.ListPendingRewards(ctx, principal.UserID)
	default:
		writeError(ctx, w, fmt.Errorf("%w: unsupported status filter %q", usecase.ErrInvalidInput, status))
		return
	}
	if err != nil {
		h.logger.WarnContext(ctx, "list rewards failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]userRewardDTO, 0, len(rewards))
	for _, item := range rewards {
		items = append(items, userRewardToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPrizePool(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPrizePool")
	defer span.End()

	contestID := r.PathValue("contestID")
	pool, err := h.rewardService.GetPrizePool(ctx, contestID)
	if err != nil {
		h.logger.WarnContext(ctx, "get prize pool failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	var distributedTotal int64
	if pool.Distributed {
		distributedTotal, err = h.rewardService.ContestRewardTotal(ctx, contestID)
		if err != nil {
			h.logger.WarnContext(ctx, "contest reward total failed", "contest_id", contestID, "error", err)
			writeError(ctx, w, err)
			return
		}
	}

	writeSuccess(ctx, w, http.StatusOK, prizePoolToDTO(pool, distributedTotal))
}

func (h *Handler) CreatePrizePool(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePrizePool")
	defer span.End()

	var req createPrizePoolRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	distribution := make([]reward.PrizeSlice, 0, len(req.Distribution))
	for _, slice := range req.Distribution {
		distribution = append(distribution, reward.PrizeSlice{
			Rank:       slice.Rank,
			Percentage: slice.Percentage,
		})
	}

	contestID := r.PathValue("contestID")
	pool, err := h.rewardService.CreatePrizePool(ctx, usecase.CreatePrizePoolInput{
		ContestID:    contestID,
		TotalAmount:  req.TotalAmount,
		Distribution: distribution,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create prize pool failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, prizePoolToDTO(pool, 0))
}

func (h *Handler) CreateBonusReward(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateBonusReward")
	defer span.End()

	var req createBonusRewardRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.rewardService.CreateBonusReward(ctx, req.UserID, req.Amount)
	if err != nil {
		h.logger.WarnContext(ctx, "create bonus reward failed", "user_id", req.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, userRewardToDTO(created))
}

func (h *Handler) ListMyTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyTransactions")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	transactions, err := h.rewardService.ListUserTransactions(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list transactions failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]transactionDTO, 0, len(transactions))
	for _, tx := range transactions {
		items = append(items, transactionDTO{
			ID:          tx.ID,
			UserID:      tx.UserID,
			Amount:      tx.Amount,
			Type:        string(tx.Type),
			Status:      string(tx.Status),
			CreatedAt:   tx.CreatedAt,
			CompletedAt: tx.CompletedAt,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type createBonusRewardRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Amount int64  `json:"amount" validate:"required,min=1"`
}

type userRewardDTO struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	ContestID string     `json:"contest_id,omitempty"`
	Amount    int64      `json:"amount"`
	Rank      int        `json:"rank,omitempty"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	ClaimedAt *time.Time `json:"claimed_at,omitempty"`
}

type prizeSliceDTO struct {
	Rank       int     `json:"rank"`
	Percentage float64 `json:"percentage"`
}

type createPrizePoolRequest struct {
	TotalAmount  int64                   `json:"total_amount" validate:"required,min=1"`
	Distribution []prizeSliceRequestItem `json:"distribution" validate:"required,min=1,dive"`
}

type prizePoolDTO struct {
	ContestID        string          `json:"contest_id"`
	TotalAmount      int64           `json:"total_amount"`
	Distribution     []prizeSliceDTO `json:"distribution"`
	Distributed      bool            `json:"distributed"`
	DistributedTotal int64           `json:"distributed_total,omitempty"`
}

func prizePoolToDTO(pool reward.PrizePool, distributedTotal int64) prizePoolDTO {
	slices := make([]prizeSliceDTO, 0, len(pool.Distribution))
	for _, slice := range pool.Distribution {
		slices = append(slices, prizeSliceDTO{
			Rank:       slice.Rank,
			Percentage: slice.Percentage,
		})
	}
	return prizePoolDTO{
		ContestID:        pool.ContestID,
		TotalAmount:      pool.TotalAmount,
		Distribution:     slices,
		Distributed:      pool.Distributed,
		DistributedTotal: distributedTotal,
	}
}

type transactionDTO struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Amount      int64      `json:"amount"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func userRewardToDTO(item reward.UserReward) userRewardDTO {
	return userRewardDTO{
		ID:        item.ID,
		UserID:    item.UserID,
		ContestID: item.ContestID,
		Amount:    item.Amount,
		Rank:      item.Rank,
		Status:    string(item.Status),
		CreatedAt: item.CreatedAt,
		ClaimedAt: item.ClaimedAt,
	}
}
