// Package export writes the year-history population to a parquet file for
// analysis outside the app.
package export

import (
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/paoloacx/wattlet/internal/curve"
)

type historyRow struct {
	ActivityID   int64   `parquet:"name=activity_id, type=INT64"`
	ActivityName string  `parquet:"name=activity_name, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	DateUTCISO   string  `parquet:"name=date_utc_iso, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	DurationS    int64   `parquet:"name=duration_s, type=INT64"`
	Label        string  `parquet:"name=label, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Watts        int64   `parquet:"name=watts, type=INT64"`
	HRBPM        int64   `parquet:"name=hr_bpm, type=INT64"`
	DistanceM    float64 `parquet:"name=distance_m, type=DOUBLE"`
	MovingTimeS  int64   `parquet:"name=moving_time_s, type=INT64"`
	Calories     float64 `parquet:"name=calories, type=DOUBLE"`
	AvgSpeedMPS  float64 `parquet:"name=avg_speed_mps, type=DOUBLE"`
	MaxHRBPM     int64   `parquet:"name=max_hr_bpm, type=INT64"`
	AvgHRBPM     int64   `parquet:"name=avg_hr_bpm, type=INT64"`
}

// WriteHistory writes one row per history record to a SNAPPY-compressed
// parquet file at path.
func WriteHistory(path string, records []curve.HistoryRecord) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("creating parquet file: %w", err)
	}
	pw, err := writer.NewParquetWriter(fw, new(historyRow), 4)
	if err != nil {
		_ = fw.Close()
		return fmt.Errorf("creating parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, r := range records {
		row := historyRow{
			ActivityID:   r.ActivityID,
			ActivityName: r.ActivityName,
			DateUTCISO:   r.Date.UTC().Format("2006-01-02T15:04:05Z"),
			DurationS:    int64(r.DurationSeconds),
			Label:        curve.LabelFor(r.DurationSeconds),
			Watts:        int64(r.Watts),
			HRBPM:        int64(r.Heartrate),
			DistanceM:    r.Distance,
			MovingTimeS:  int64(r.MovingTime),
			Calories:     r.Calories,
			AvgSpeedMPS:  r.AverageSpeed,
			MaxHRBPM:     int64(r.MaxHeartrate),
			AvgHRBPM:     int64(r.AvgHeartrate),
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return fmt.Errorf("writing row for activity %d: %w", r.ActivityID, err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return fmt.Errorf("finalizing parquet file: %w", err)
	}
	return fw.Close()
}
