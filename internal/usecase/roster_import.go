package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/panjf2000/ants/v2"
	"github.com/valyala/bytebufferpool"

	"github.com/fedegarcia/hockeyclub/internal/domain/player"
	"github.com/fedegarcia/hockeyclub/internal/domain/team"
	"github.com/fedegarcia/hockeyclub/internal/platform/logging"
)

// rosterFormat is a closed set of supported upload formats. The format is
// decided once, from the file name, and drives which parser runs; nothing
// downstream inspects the payload to guess.
type rosterFormat string

const (
	rosterFormatCSV  rosterFormat = "csv"
	rosterFormatJSON rosterFormat = "json"
)

const importDateLayout = "2006-01-02"

var importJSON = jsoniter.ConfigCompatibleWithStandardLibrary

type importRow struct {
	Line      int
	FirstName string
	LastName  string
	Nickname  string
	BirthDate string
	Position  string
}

type ImportRowResult struct {
	Line     int    `json:"line"`
	PlayerID string `json:"player_id,omitempty"`
	Name     string `json:"name"`
	Imported bool   `json:"imported"`
	Message  string `json:"message,omitempty"`
}

type ImportResult struct {
	Total    int               `json:"total"`
	Imported int               `json:"imported"`
	Failed   int               `json:"failed"`
	Rows     []ImportRowResult `json:"rows"`
	Report   string            `json:"report"`
}

type RosterImportService struct {
	playerSvc  *PlayerService
	maxWorkers int
	maxRows    int
	logger     *logging.Logger
}

func NewRosterImportService(playerSvc *PlayerService, maxWorkers, maxRows int, logger *logging.Logger) *RosterImportService {
	if logger == nil {
		logger = logging.Default()
	}
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if maxRows < 1 {
		maxRows = 1
	}

	return &RosterImportService{
		playerSvc:  playerSvc,
		maxWorkers: maxWorkers,
		maxRows:    maxRows,
		logger:     logger,
	}
}

// Import parses the upload per its declared file name and registers every row
// through the regular add-player gates. Row validation fans out over a bounded
// pool; the cap-checked inserts run sequentially afterwards.
func (s *RosterImportService) Import(ctx context.Context, userID, teamID, filename string, body io.Reader) (ImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterImportService.Import")
	defer span.End()

	format, err := detectRosterFormat(filename)
	if err != nil {
		return ImportResult{}, err
	}

	// Ownership fails fast, before any row work.
	owned, err := s.playerSvc.requireOwnedTeam(ctx, userID, teamID)
	if err != nil {
		return ImportResult{}, err
	}

	var rows []importRow
	switch format {
	case rosterFormatCSV:
		rows, err = parseCSVRoster(body)
	case rosterFormatJSON:
		rows, err = parseJSONRoster(body)
	}
	if err != nil {
		return ImportResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(rows) == 0 {
		return ImportResult{}, fmt.Errorf("%w: el archivo no contiene jugadoras", ErrInvalidInput)
	}
	if len(rows) > s.maxRows {
		return ImportResult{}, fmt.Errorf("%w: el archivo supera el máximo de %d filas", ErrInvalidInput, s.maxRows)
	}

	pool, err := ants.NewPool(s.maxWorkers)
	if err != nil {
		return ImportResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	// The per-row gates are read-only, so they can run in parallel. Each
	// worker writes its own slot, which also keeps the rows in file order.
	prepared := make([]preparedImportRow, len(rows))
	var wg sync.WaitGroup
	for i, row := range rows {
		i, row := i, row
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			prepared[i] = s.prepareRow(ctx, owned, row)
		})
		if submitErr != nil {
			wg.Done()
			prepared[i] = preparedImportRow{result: ImportRowResult{
				Line:    row.Line,
				Name:    strings.TrimSpace(row.FirstName + " " + row.LastName),
				Message: fmt.Sprintf("submit row: %v", submitErr),
			}}
		}
	}
	wg.Wait()

	// Inserts stay on this goroutine. The roster cap is a count-then-create
	// pair, so every insert has to see the ones that landed before it.
	results := make([]ImportRowResult, 0, len(rows))
	for _, p := range prepared {
		if p.ready {
			created, err := s.playerSvc.addPrepared(ctx, owned, p.item)
			if err != nil {
				p.result.Message = err.Error()
			} else {
				p.result.PlayerID = created.ID
				p.result.Imported = true
			}
		}
		results = append(results, p.result)
	}

	out := ImportResult{Total: len(results), Rows: results}
	for _, r := range results {
		if r.Imported {
			out.Imported++
		} else {
			out.Failed++
		}
	}
	out.Report = renderImportReport(out)

	s.logger.InfoContext(ctx, "roster import finished",
		"team_id", teamID,
		"total", out.Total,
		"imported", out.Imported,
		"failed", out.Failed,
	)

	return out, nil
}

// preparedImportRow is one validated row awaiting its sequential insert.
// ready is false when validation already failed and result carries the reason.
type preparedImportRow struct {
	result ImportRowResult
	item   player.Player
	ready  bool
}

func (s *RosterImportService) prepareRow(ctx context.Context, owned team.Team, row importRow) preparedImportRow {
	out := preparedImportRow{result: ImportRowResult{
		Line: row.Line,
		Name: strings.TrimSpace(row.FirstName + " " + row.LastName),
	}}

	birthDate, err := time.Parse(importDateLayout, strings.TrimSpace(row.BirthDate))
	if err != nil {
		out.result.Message = fmt.Sprintf("fecha de nacimiento inválida: %q", row.BirthDate)
		return out
	}

	input := PlayerInput{
		FirstName: row.FirstName,
		LastName:  row.LastName,
		BirthDate: birthDate,
		Position:  player.Position(strings.ToLower(strings.TrimSpace(row.Position))),
	}
	if nickname := strings.TrimSpace(row.Nickname); nickname != "" {
		input.Nickname = &nickname
	}

	item, err := s.playerSvc.buildPlayer(owned.ID, input)
	if err != nil {
		out.result.Message = err.Error()
		return out
	}
	if err := s.playerSvc.checkRegistrationGates(ctx, owned, item); err != nil {
		out.result.Message = err.Error()
		return out
	}

	out.item = item
	out.ready = true

	return out
}

func detectRosterFormat(filename string) (rosterFormat, error) {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(filename))) {
	case ".csv":
		return rosterFormatCSV, nil
	case ".json":
		return rosterFormatJSON, nil
	default:
		return "", fmt.Errorf("%w: formato no soportado, use .csv o .json", ErrInvalidInput)
	}
}

// parseCSVRoster expects a header row: first_name,last_name,nickname,birth_date,position.
func parseCSVRoster(body io.Reader) ([]importRow, error) {
	reader := csv.NewReader(body)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"first_name", "last_name", "birth_date", "position"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing csv column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	rows := make([]importRow, 0, len(records)-1)
	for i, record := range records[1:] {
		rows = append(rows, importRow{
			Line:      i + 2,
			FirstName: field(record, "first_name"),
			LastName:  field(record, "last_name"),
			Nickname:  field(record, "nickname"),
			BirthDate: field(record, "birth_date"),
			Position:  field(record, "position"),
		})
	}

	return rows, nil
}

type jsonRosterPayload struct {
	Players []struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Nickname  string `json:"nickname"`
		BirthDate string `json:"birthDate"`
		Position  string `json:"position"`
	} `json:"players"`
}

func parseJSONRoster(body io.Reader) ([]importRow, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var payload jsonRosterPayload
	if err := importJSON.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	rows := make([]importRow, 0, len(payload.Players))
	for i, p := range payload.Players {
		rows = append(rows, importRow{
			Line:      i + 1,
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Nickname:  p.Nickname,
			BirthDate: p.BirthDate,
			Position:  p.Position,
		})
	}

	return rows, nil
}

// renderImportReport builds the plain-text summary attached to the response.
func renderImportReport(result ImportResult) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	fmt.Fprintf(buf, "importadas %d de %d jugadoras", result.Imported, result.Total)
	for _, row := range result.Rows {
		if row.Imported {
			continue
		}
		fmt.Fprintf(buf, "\nfila %d (%s): %s", row.Line, row.Name, row.Message)
	}

	return buf.String()
}
