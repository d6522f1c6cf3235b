package csvsource

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jinford/med-rag/internal/core/ingestion"
)

// DefaultMaxMedicineRecords は医薬品データの取り込み上限。
// 医薬品CSVは数十万行規模なので先頭N件に絞る。
const DefaultMaxMedicineRecords = 1000

// Loader は医療CSVデータセットを読み込み、取り込み用レコードに変換する
type Loader struct {
	dir                string
	maxMedicineRecords int
	logger             *slog.Logger
}

// LoaderOption は Loader のオプション設定
type LoaderOption func(*Loader)

// WithMaxMedicineRecords は医薬品データの取り込み上限を上書きする
func WithMaxMedicineRecords(n int) LoaderOption {
	return func(l *Loader) {
		l.maxMedicineRecords = n
	}
}

// WithLoaderLogger は Loader にロガーを設定する
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader は新しい Loader を作成する
func NewLoader(dir string, opts ...LoaderOption) *Loader {
	l := &Loader{
		dir:                dir,
		maxMedicineRecords: DefaultMaxMedicineRecords,
		logger:             slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load はディレクトリ配下の全データセットを読み込む。
// 個々のファイルの読み込み失敗はログに記録してスキップし、
// 読み込めた分だけのデータセットを返す。
func (l *Loader) Load() (*ingestion.Dataset, error) {
	ds := &ingestion.Dataset{}

	load := func(file string, fn func(io.Reader) error) {
		path := filepath.Join(l.dir, file)
		f, err := os.Open(path)
		if err != nil {
			l.logger.Warn("skipping dataset file", "file", file, "error", err)
			return
		}
		defer f.Close()

		if err := fn(f); err != nil {
			l.logger.Warn("failed to read dataset file", "file", file, "error", err)
		}
	}

	load(ingestion.SourceFileDialogues, func(r io.Reader) error {
		records, err := ReadDialogues(r)
		ds.Dialogues = records
		return err
	})
	load(ingestion.SourceFileDiseaseDescriptions, func(r io.Reader) error {
		records, err := ReadDiseaseDescriptions(r)
		ds.DiseaseDescriptions = records
		return err
	})
	load(ingestion.SourceFilePrecautions, func(r io.Reader) error {
		records, err := ReadPrecautions(r)
		ds.Precautions = records
		return err
	})
	load(ingestion.SourceFileFAQs, func(r io.Reader) error {
		records, err := ReadFAQs(r)
		ds.FAQs = records
		return err
	})
	load(ingestion.SourceFileSymptomPatterns, func(r io.Reader) error {
		records, err := ReadSymptomPatterns(r)
		ds.SymptomPatterns = records
		return err
	})
	load(ingestion.SourceFileMedicinesBasic, func(r io.Reader) error {
		records, err := ReadMedicinesBasic(r, l.maxMedicineRecords)
		ds.MedicinesBasic = records
		return err
	})
	load(ingestion.SourceFileMedicinesDetailed, func(r io.Reader) error {
		records, err := ReadMedicinesDetailed(r, l.maxMedicineRecords)
		ds.MedicinesDetailed = records
		return err
	})

	return ds, nil
}

// table はヘッダー名でフィールドを引けるCSVテーブル
type table struct {
	columns map[string]int
	rows    [][]string
}

// readTable はCSV全体を読み込む。行ごとのフィールド数の揺れは許容する。
func readTable(r io.Reader) (*table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// 壊れた行はスキップして読み続ける
			continue
		}
		rows = append(rows, row)
	}

	return &table{columns: columns, rows: rows}, nil
}

// field は行から列名でフィールドを取り出す。列が無い場合は空文字を返す。
func (t *table) field(row []string, column string) string {
	idx, ok := t.columns[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// ReadDialogues は会話データCSVを読み込む
func ReadDialogues(r io.Reader) ([]ingestion.DialogueRecord, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, err
	}

	records := make([]ingestion.DialogueRecord, 0, len(t.rows))
	for _, row := range t.rows {
		records = append(records, ingestion.DialogueRecord{
			Dialogue:      t.field(row, "dialogue"),
			SectionText:   t.field(row, "section_text"),
			SectionHeader: t.field(row, "section_header"),
		})
	}
	return records, nil
}

// ReadDiseaseDescriptions は疾患説明CSVを読み込む
func ReadDiseaseDescriptions(r io.Reader) ([]ingestion.DiseaseDescriptionRecord, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, err
	}

	records := make([]ingestion.DiseaseDescriptionRecord, 0, len(t.rows))
	for _, row := range t.rows {
		records = append(records, ingestion.DiseaseDescriptionRecord{
			Disease:     t.field(row, "Disease"),
			Description: t.field(row, "Description"),
		})
	}
	return records, nil
}

// precautionColumnCount はCSVに含まれる注意事項列の数（Precaution_1..4）
const precautionColumnCount = 4

// ReadPrecautions は注意事項CSVを読み込む
func ReadPrecautions(r io.Reader) ([]ingestion.PrecautionRecord, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, err
	}

	records := make([]ingestion.PrecautionRecord, 0, len(t.rows))
	for _, row := range t.rows {
		var precautions []string
		for i := 1; i <= precautionColumnCount; i++ {
			if p := t.field(row, fmt.Sprintf("Precaution_%d", i)); p != "" {
				precautions = append(precautions, p)
			}
		}
		records = append(records, ingestion.PrecautionRecord{
			Disease:     t.field(row, "Disease"),
			Precautions: precautions,
		})
	}
	return records, nil
}

// ReadFAQs はQ&A CSVを読み込む
func ReadFAQs(r io.Reader) ([]ingestion.FAQRecord, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, err
	}

	records := make([]ingestion.FAQRecord, 0, len(t.rows))
	for _, row := range t.rows {
		records = append(records, ingestion.FAQRecord{
			Question:     t.field(row, "Question"),
			Answer:       t.field(row, "Answer"),
			QuestionType: t.field(row, "qtype"),
		})
	}
	return records, nil
}

// ReadSymptomPatterns は症状パターンCSVを読み込む。
// prognosis 以外の列は症状名で、値が 1 の症状が陽性として扱われる。
func ReadSymptomPatterns(r io.Reader) ([]ingestion.SymptomPatternRecord, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, err
	}

	symptomColumns := make([]string, 0, len(t.columns))
	for name := range t.columns {
		if name != "prognosis" && name != "" {
			symptomColumns = append(symptomColumns, name)
		}
	}

	records := make([]ingestion.SymptomPatternRecord, 0, len(t.rows))
	for _, row := range t.rows {
		var symptoms []string
		for _, col := range symptomColumns {
			if isPositive(t.field(row, col)) {
				symptoms = append(symptoms, col)
			}
		}
		records = append(records, ingestion.SymptomPatternRecord{
			Prognosis: t.field(row, "prognosis"),
			Symptoms:  symptoms,
		})
	}
	return records, nil
}

// ReadMedicinesBasic は医薬品基本CSVを先頭 maxRecords 件読み込む
func ReadMedicinesBasic(r io.Reader, maxRecords int) ([]ingestion.MedicineBasicRecord, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, err
	}

	rows := t.rows
	if maxRecords > 0 && len(rows) > maxRecords {
		rows = rows[:maxRecords]
	}

	records := make([]ingestion.MedicineBasicRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, ingestion.MedicineBasicRecord{
			Name:           t.field(row, "Name"),
			Category:       t.field(row, "Category"),
			DosageForm:     t.field(row, "Dosage Form"),
			Strength:       t.field(row, "Strength"),
			Manufacturer:   t.field(row, "Manufacturer"),
			Indication:     t.field(row, "Indication"),
			Classification: t.field(row, "Classification"),
		})
	}
	return records, nil
}

// ReadMedicinesDetailed は医薬品詳細CSVを先頭 maxRecords 件読み込む
func ReadMedicinesDetailed(r io.Reader, maxRecords int) ([]ingestion.MedicineDetailedRecord, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, err
	}

	rows := t.rows
	if maxRecords > 0 && len(rows) > maxRecords {
		rows = rows[:maxRecords]
	}

	records := make([]ingestion.MedicineDetailedRecord, 0, len(rows))
	for _, row := range rows {
		price, _ := strconv.ParseFloat(t.field(row, "price"), 64)
		discontinued, _ := strconv.ParseBool(strings.ToLower(t.field(row, "Is_discontinued")))

		records = append(records, ingestion.MedicineDetailedRecord{
			Name:             t.field(row, "name"),
			Composition1:     t.field(row, "short_composition1"),
			Composition2:     t.field(row, "short_composition2"),
			SaltComposition:  t.field(row, "salt_composition"),
			MedicineType:     t.field(row, "type"),
			PackSize:         t.field(row, "pack_size_label"),
			Manufacturer:     t.field(row, "manufacturer_name"),
			Price:            price,
			IsDiscontinued:   discontinued,
			Description:      t.field(row, "medicine_desc"),
			SideEffects:      t.field(row, "side_effects"),
			DrugInteractions: t.field(row, "drug_interactions"),
		})
	}
	return records, nil
}

// isPositive は症状列の値が陽性（1）かどうかを判定する
func isPositive(value string) bool {
	switch value {
	case "1", "1.0":
		return true
	}
	return false
}
