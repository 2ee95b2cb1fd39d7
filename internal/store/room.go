package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/fernside/internal/economy"
	"github.com/dukerupert/fernside/internal/model"
)

// RoomStore persists the gamification state: the points balance row plus the
// owned, placed, and claimed-reward sets.
type RoomStore struct {
	db *sql.DB
}

func NewRoomStore(db *sql.DB) *RoomStore {
	return &RoomStore{db: db}
}

// GetState assembles the full room state.
func (s *RoomStore) GetState() (model.RoomState, error) {
	var state model.RoomState
	err := s.db.QueryRow(
		`SELECT room_name, focus_points, lifetime_focus_points, total_completed_pomodoros FROM room WHERE id = 1`,
	).Scan(&state.RoomName, &state.FocusPoints, &state.LifetimeFocusPoints, &state.TotalCompletedPomodoros)
	if err != nil {
		return model.RoomState{}, fmt.Errorf("get room: %w", err)
	}

	rows, err := s.db.Query(`SELECT item_id, purchased_at FROM owned_items ORDER BY purchased_at ASC, item_id ASC`)
	if err != nil {
		return model.RoomState{}, fmt.Errorf("list owned items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var o model.OwnedItem
		if err := rows.Scan(&o.ItemID, &o.PurchasedAt); err != nil {
			return model.RoomState{}, fmt.Errorf("scan owned item: %w", err)
		}
		state.OwnedItems = append(state.OwnedItems, o)
	}
	if err := rows.Err(); err != nil {
		return model.RoomState{}, err
	}

	placedRows, err := s.db.Query(`SELECT item_id, grid_position FROM placed_items ORDER BY grid_position ASC`)
	if err != nil {
		return model.RoomState{}, fmt.Errorf("list placed items: %w", err)
	}
	defer placedRows.Close()
	for placedRows.Next() {
		var p model.PlacedItem
		if err := placedRows.Scan(&p.ItemID, &p.GridPosition); err != nil {
			return model.RoomState{}, fmt.Errorf("scan placed item: %w", err)
		}
		state.PlacedItems = append(state.PlacedItems, p)
	}
	if err := placedRows.Err(); err != nil {
		return model.RoomState{}, err
	}

	claimRows, err := s.db.Query(`SELECT type, claimed_at FROM claimed_rewards ORDER BY claimed_at ASC`)
	if err != nil {
		return model.RoomState{}, fmt.Errorf("list claimed rewards: %w", err)
	}
	defer claimRows.Close()
	for claimRows.Next() {
		var c model.ClaimedReward
		if err := claimRows.Scan(&c.Type, &c.ClaimedAt); err != nil {
			return model.RoomState{}, fmt.Errorf("scan claimed reward: %w", err)
		}
		state.ClaimedRewards = append(state.ClaimedRewards, c)
	}
	return state, claimRows.Err()
}

// LastAwardDate returns the calendar day of the most recent point award, or
// "" when no award has happened yet.
func (s *RoomStore) LastAwardDate() (string, error) {
	var date string
	err := s.db.QueryRow(`SELECT last_award_date FROM room WHERE id = 1`).Scan(&date)
	if err != nil {
		return "", fmt.Errorf("get last award date: %w", err)
	}
	return date, nil
}

// AwardPoints credits a completed session: balance and lifetime both grow by
// total, the pomodoro counter bumps by one, and today becomes the new award
// date. One call per completed/skipped session.
func (s *RoomStore) AwardPoints(total int, today string) error {
	_, err := s.db.Exec(
		`UPDATE room SET
			focus_points = focus_points + ?,
			lifetime_focus_points = lifetime_focus_points + ?,
			total_completed_pomodoros = total_completed_pomodoros + 1,
			last_award_date = ?
		 WHERE id = 1`,
		total, total, today,
	)
	if err != nil {
		return fmt.Errorf("award points: %w", err)
	}
	return nil
}

// PurchaseItem debits the balance and adds the item to the owned set,
// atomically. Returns economy.ErrAlreadyOwned or economy.ErrInsufficientFunds
// as expected outcomes.
func (s *RoomStore) PurchaseItem(itemID string, cost int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin purchase: %w", err)
	}
	defer tx.Rollback()

	var owned int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM owned_items WHERE item_id = ?`, itemID).Scan(&owned); err != nil {
		return fmt.Errorf("check owned: %w", err)
	}
	if owned > 0 {
		return economy.ErrAlreadyOwned
	}

	var balance int
	if err := tx.QueryRow(`SELECT focus_points FROM room WHERE id = 1`).Scan(&balance); err != nil {
		return fmt.Errorf("check balance: %w", err)
	}
	if balance < cost {
		return economy.ErrInsufficientFunds
	}

	if _, err := tx.Exec(`UPDATE room SET focus_points = focus_points - ? WHERE id = 1`, cost); err != nil {
		return fmt.Errorf("debit balance: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO owned_items (item_id, purchased_at) VALUES (?, ?)`,
		itemID, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("insert owned item: %w", err)
	}

	return tx.Commit()
}

// PlaceItem puts an owned item on a grid cell. An existing placement of the
// same item moves. Returns false (no error) when the item isn't owned or the
// cell is taken by a different item.
func (s *RoomStore) PlaceItem(itemID string, position int) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin place: %w", err)
	}
	defer tx.Rollback()

	var owned int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM owned_items WHERE item_id = ?`, itemID).Scan(&owned); err != nil {
		return false, fmt.Errorf("check owned: %w", err)
	}
	if owned == 0 {
		return false, nil
	}

	var occupant string
	err = tx.QueryRow(`SELECT item_id FROM placed_items WHERE grid_position = ?`, position).Scan(&occupant)
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("check cell: %w", err)
	}
	if err == nil && occupant != itemID {
		return false, nil
	}

	if _, err := tx.Exec(`DELETE FROM placed_items WHERE item_id = ?`, itemID); err != nil {
		return false, fmt.Errorf("clear old placement: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO placed_items (item_id, grid_position) VALUES (?, ?)`,
		itemID, position,
	); err != nil {
		return false, fmt.Errorf("insert placement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit place: %w", err)
	}
	return true, nil
}

// RemoveAt clears whatever occupies the cell. No-op on an empty cell.
func (s *RoomStore) RemoveAt(position int) error {
	_, err := s.db.Exec(`DELETE FROM placed_items WHERE grid_position = ?`, position)
	if err != nil {
		return fmt.Errorf("remove placement: %w", err)
	}
	return nil
}

// ClaimReward records a one-time sharing reward and credits its points.
// Returns false when the reward type was already claimed; the balance is
// untouched in that case.
func (s *RoomStore) ClaimReward(rewardType string, points int) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin claim: %w", err)
	}
	defer tx.Rollback()

	var claimed int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM claimed_rewards WHERE type = ?`, rewardType).Scan(&claimed); err != nil {
		return false, fmt.Errorf("check claimed: %w", err)
	}
	if claimed > 0 {
		return false, nil
	}

	if _, err := tx.Exec(
		`INSERT INTO claimed_rewards (type, claimed_at) VALUES (?, ?)`,
		rewardType, time.Now().UTC(),
	); err != nil {
		return false, fmt.Errorf("insert claim: %w", err)
	}
	if _, err := tx.Exec(
		`UPDATE room SET focus_points = focus_points + ?, lifetime_focus_points = lifetime_focus_points + ? WHERE id = 1`,
		points, points,
	); err != nil {
		return false, fmt.Errorf("credit claim: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit claim: %w", err)
	}
	return true, nil
}

func (s *RoomStore) SetRoomName(name string) error {
	_, err := s.db.Exec(`UPDATE room SET room_name = ? WHERE id = 1`, name)
	if err != nil {
		return fmt.Errorf("set room name: %w", err)
	}
	return nil
}

// ReplaceState overwrites the full room state from a restored snapshot.
func (s *RoomStore) ReplaceState(state model.RoomState, lastAwardDate string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin replace room: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`UPDATE room SET room_name = ?, focus_points = ?, lifetime_focus_points = ?, total_completed_pomodoros = ?, last_award_date = ? WHERE id = 1`,
		state.RoomName, state.FocusPoints, state.LifetimeFocusPoints, state.TotalCompletedPomodoros, lastAwardDate,
	)
	if err != nil {
		return fmt.Errorf("replace room row: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM placed_items`); err != nil {
		return fmt.Errorf("clear placed: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM owned_items`); err != nil {
		return fmt.Errorf("clear owned: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM claimed_rewards`); err != nil {
		return fmt.Errorf("clear claims: %w", err)
	}

	for _, o := range state.OwnedItems {
		if _, err := tx.Exec(`INSERT INTO owned_items (item_id, purchased_at) VALUES (?, ?)`, o.ItemID, o.PurchasedAt); err != nil {
			return fmt.Errorf("insert owned %q: %w", o.ItemID, err)
		}
	}
	for _, p := range state.PlacedItems {
		if _, err := tx.Exec(`INSERT INTO placed_items (item_id, grid_position) VALUES (?, ?)`, p.ItemID, p.GridPosition); err != nil {
			return fmt.Errorf("insert placed %q: %w", p.ItemID, err)
		}
	}
	for _, c := range state.ClaimedRewards {
		if _, err := tx.Exec(`INSERT INTO claimed_rewards (type, claimed_at) VALUES (?, ?)`, c.Type, c.ClaimedAt); err != nil {
			return fmt.Errorf("insert claim %q: %w", c.Type, err)
		}
	}

	return tx.Commit()
}
