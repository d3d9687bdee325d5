package bridge

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Device is a registered device in the bridge registry
type Device struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryEntry records one action the bridge forwarded to a device
type HistoryEntry struct {
	ID        int       `json:"id"`
	DeviceID  string    `json:"device_id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
	Success   bool      `json:"success"`
	CreatedAt time.Time `json:"created_at"`
}

// Store handles SQLite registry operations
type Store struct {
	db *sql.DB
}

// NewStore opens the registry database and initializes the schema
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// initSchema creates the registry tables
func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS devices (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			address TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			device_id TEXT NOT NULL,
			action TEXT NOT NULL,
			detail TEXT,
			success BOOLEAN NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (device_id) REFERENCES devices (id)
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute schema query: %w", err)
		}
	}

	return nil
}

// AddDevice registers a device and returns it with its assigned id
func (s *Store) AddDevice(name, address string) (*Device, error) {
	device := &Device{
		ID:        uuid.NewString(),
		Name:      name,
		Address:   address,
		CreatedAt: time.Now(),
	}

	_, err := s.db.Exec(
		`INSERT INTO devices (id, name, address, created_at) VALUES (?, ?, ?, ?)`,
		device.ID, device.Name, device.Address, device.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert device: %w", err)
	}

	return device, nil
}

// GetDevice looks up a registered device by id
func (s *Store) GetDevice(id string) (*Device, error) {
	var device Device
	err := s.db.QueryRow(
		`SELECT id, name, address, created_at FROM devices WHERE id = ?`, id,
	).Scan(&device.ID, &device.Name, &device.Address, &device.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("device '%s' not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query device: %w", err)
	}

	return &device, nil
}

// ListDevices returns all registered devices
func (s *Store) ListDevices() ([]Device, error) {
	rows, err := s.db.Query(`SELECT id, name, address, created_at FROM devices ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}
	defer rows.Close()

	devices := []Device{}
	for rows.Next() {
		var device Device
		if err := rows.Scan(&device.ID, &device.Name, &device.Address, &device.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, device)
	}

	return devices, rows.Err()
}

// RemoveDevice deletes a registered device
func (s *Store) RemoveDevice(id string) error {
	result, err := s.db.Exec(`DELETE FROM devices WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("device '%s' not found", id)
	}

	return nil
}

// RecordAction appends a history entry for a forwarded action
func (s *Store) RecordAction(deviceID, action, detail string, success bool) error {
	_, err := s.db.Exec(
		`INSERT INTO history (device_id, action, detail, success) VALUES (?, ?, ?, ?)`,
		deviceID, action, detail, success,
	)
	if err != nil {
		return fmt.Errorf("failed to record action: %w", err)
	}
	return nil
}

// History returns the most recent history entries for a device
func (s *Store) History(deviceID string, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT id, device_id, action, detail, success, created_at
		 FROM history WHERE device_id = ? ORDER BY id DESC LIMIT ?`,
		deviceID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := []HistoryEntry{}
	for rows.Next() {
		var entry HistoryEntry
		var detail sql.NullString
		if err := rows.Scan(&entry.ID, &entry.DeviceID, &entry.Action, &detail, &entry.Success, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entry.Detail = detail.String
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
