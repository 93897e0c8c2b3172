package storage

import (
	"database/sql"
	"errors"

	"token-pulse/src/models"
)

func scanTokens(rows *sql.Rows) ([]models.MTokenMetadata, error) {
	var out []models.MTokenMetadata
	for rows.Next() {
		var t models.MTokenMetadata
		var address, image sql.NullString
		if err := rows.Scan(&t.ID, &t.Symbol, &t.Name, &address, &image, &t.ColumnTitle); err != nil {
			return nil, err
		}
		t.Address = address.String
		t.Image = image.String
		out = append(out, t)
	}
	return out, rows.Err()
}

// -----------------------------------------------------------------------------

func scanTicks(rows *sql.Rows) ([]models.MPriceTick, error) {
	var out []models.MPriceTick
	for rows.Next() {
		var t models.MPriceTick
		var direction string
		if err := rows.Scan(&t.TokenID, &t.Symbol, &t.Price, &direction, &t.Timestamp); err != nil {
			return nil, err
		}
		t.Direction = models.MChangeDirection(direction)
		out = append(out, t)
	}
	return out, rows.Err()
}

// -----------------------------------------------------------------------------

func ignoreNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}
