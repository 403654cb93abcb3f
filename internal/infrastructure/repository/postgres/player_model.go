package postgres

import (
	"database/sql"
	"time"

	"github.com/courtdata/courtsync/internal/canonical"
	"github.com/courtdata/courtsync/internal/domain/player"
)

type playerTableModel struct {
	ID             string         `db:"id"`
	FullName       string         `db:"full_name"`
	NormalizedName string         `db:"normalized_name"`
	GivenName      string         `db:"given_name"`
	Surname        string         `db:"surname"`
	Positions      string        `db:"positions"`
	HeightCm       sql.NullInt64 `db:"height_cm"`
	Birthdate      sql.NullTime  `db:"birthdate"`
	Nationality    string        `db:"nationality"`
	CreatedAt      time.Time     `db:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at"`
}

type playerInsertModel struct {
	ID             string        `db:"id"`
	FullName       string        `db:"full_name"`
	NormalizedName string        `db:"normalized_name"`
	GivenName      string        `db:"given_name"`
	Surname        string        `db:"surname"`
	Positions      string        `db:"positions"`
	HeightCm       sql.NullInt64 `db:"height_cm"`
	Birthdate      sql.NullTime  `db:"birthdate"`
	Nationality    string        `db:"nationality"`
}

func heightToColumn(height *canonical.Height) sql.NullInt64 {
	if height == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*height), Valid: true}
}

func birthdateToColumn(birthdate *canonical.Birthdate) sql.NullTime {
	if birthdate == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: birthdate.Time(), Valid: true}
}

func (m playerTableModel) toDomain(externalIDs map[string]string) player.Player {
	out := player.Player{
		ID:             m.ID,
		FullName:       m.FullName,
		NormalizedName: m.NormalizedName,
		GivenName:      m.GivenName,
		Surname:        m.Surname,
		Positions:      textToPositions(m.Positions),
		Nationality:    m.Nationality,
		ExternalIDs:    externalIDs,
	}
	if m.HeightCm.Valid {
		height := canonical.Height(m.HeightCm.Int64)
		out.Height = &height
	}
	if m.Birthdate.Valid {
		stored := m.Birthdate.Time.UTC()
		birthdate := canonical.Birthdate{Year: stored.Year(), Month: stored.Month(), Day: stored.Day()}
		out.Birthdate = &birthdate
	}
	return out
}
