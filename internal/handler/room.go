package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/fernside/internal/economy"
	"github.com/dukerupert/fernside/internal/room"
	"github.com/dukerupert/fernside/internal/store"
	syncer "github.com/dukerupert/fernside/internal/sync"
	"github.com/dukerupert/fernside/internal/websocket"
)

type RoomHandler struct {
	room    *store.RoomStore
	streaks *store.StreakStore
	hub     *websocket.Hub
	sync    *syncer.Manager
	logger  *slog.Logger
}

func NewRoomHandler(roomStore *store.RoomStore, streaks *store.StreakStore, hub *websocket.Hub, sync *syncer.Manager, logger *slog.Logger) *RoomHandler {
	return &RoomHandler{room: roomStore, streaks: streaks, hub: hub, sync: sync, logger: logger}
}

func (h *RoomHandler) changed(action string, payload any) {
	if h.hub != nil {
		h.hub.Broadcast(websocket.ChangeEvent("room", action, payload))
	}
	if h.sync != nil {
		h.sync.Schedule()
	}
}

func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	state, err := h.room.GetState()
	if err != nil {
		h.logger.Error("get room", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load room")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// shopItem is a catalog entry joined with the user's progress: owned and
// unlocked are computed per request.
type shopItem struct {
	economy.Item
	Owned    bool `json:"owned"`
	Unlocked bool `json:"unlocked"`
}

func (h *RoomHandler) Shop(w http.ResponseWriter, r *http.Request) {
	state, err := h.room.GetState()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load room")
		return
	}
	streakData, err := h.streaks.Get()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load streak")
		return
	}

	items := make([]shopItem, 0, len(economy.Catalog))
	for i := range economy.Catalog {
		item := &economy.Catalog[i]
		items = append(items, shopItem{
			Item:     *item,
			Owned:    room.Owns(state.OwnedItems, item.ID),
			Unlocked: economy.IsUnlocked(item, state.TotalCompletedPomodoros, streakData.LongestStreak),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":        items,
		"focus_points": state.FocusPoints,
	})
}

func (h *RoomHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")

	item := economy.ItemByID(itemID)
	if item == nil {
		writeError(w, http.StatusNotFound, economy.ErrItemNotFound.Error())
		return
	}

	state, err := h.room.GetState()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load room")
		return
	}
	streakData, err := h.streaks.Get()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load streak")
		return
	}
	if !economy.IsUnlocked(item, state.TotalCompletedPomodoros, streakData.LongestStreak) {
		writeError(w, http.StatusForbidden, economy.ErrItemLocked.Error())
		return
	}

	err = h.room.PurchaseItem(item.ID, item.Cost)
	switch {
	case errors.Is(err, economy.ErrAlreadyOwned):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, economy.ErrInsufficientFunds):
		writeError(w, http.StatusPaymentRequired, err.Error())
		return
	case err != nil:
		h.logger.Error("purchase item", "item_id", itemID, "error", err)
		writeError(w, http.StatusInternalServerError, "purchase failed")
		return
	}

	state, err = h.room.GetState()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load room")
		return
	}

	h.changed("purchased", state)
	writeJSON(w, http.StatusOK, state)
}

func (h *RoomHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID   string `json:"item_id"`
		Position int    `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if !room.ValidPosition(req.Position) {
		writeError(w, http.StatusBadRequest, "position out of range")
		return
	}

	placed, err := h.room.PlaceItem(req.ItemID, req.Position)
	if err != nil {
		h.logger.Error("place item", "error", err)
		writeError(w, http.StatusInternalServerError, "placement failed")
		return
	}
	if !placed {
		writeError(w, http.StatusConflict, "item not owned or cell occupied")
		return
	}

	state, err := h.room.GetState()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load room")
		return
	}

	h.changed("placed", state)
	writeJSON(w, http.StatusOK, state)
}

func (h *RoomHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Position int `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if !room.ValidPosition(req.Position) {
		writeError(w, http.StatusBadRequest, "position out of range")
		return
	}

	if err := h.room.RemoveAt(req.Position); err != nil {
		h.logger.Error("remove item", "error", err)
		writeError(w, http.StatusInternalServerError, "remove failed")
		return
	}

	state, err := h.room.GetState()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load room")
		return
	}

	h.changed("removed", state)
	writeJSON(w, http.StatusOK, state)
}

func (h *RoomHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := h.room.SetRoomName(req.Name); err != nil {
		writeError(w, http.StatusInternalServerError, "rename failed")
		return
	}

	h.changed("renamed", map[string]string{"room_name": req.Name})
	writeJSON(w, http.StatusOK, map[string]string{"room_name": req.Name})
}

func (h *RoomHandler) ClaimReward(w http.ResponseWriter, r *http.Request) {
	rewardType := r.PathValue("type")

	reward := economy.SharingRewardByType(rewardType)
	if reward == nil {
		writeError(w, http.StatusNotFound, "unknown reward")
		return
	}

	claimed, err := h.room.ClaimReward(reward.Type, reward.Points)
	if err != nil {
		h.logger.Error("claim reward", "type", rewardType, "error", err)
		writeError(w, http.StatusInternalServerError, "claim failed")
		return
	}
	if !claimed {
		writeError(w, http.StatusConflict, "reward already claimed")
		return
	}

	state, err := h.room.GetState()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load room")
		return
	}

	h.changed("reward_claimed", state)
	writeJSON(w, http.StatusOK, state)
}
