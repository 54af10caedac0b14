package db

import (
	"context"
	"testing"
)

func testAdapter(t *testing.T) DBAdapter {
	ctx := context.Background()
	t.Setenv(`W2V2_DATASET_DB`, t.TempDir())
	conn, status := NewDBAdapter(ctx, true, `tester`, `unit_test`)
	if status != nil {
		t.Fatal(status)
	}
	t.Cleanup(conn.Close)
	return conn
}

func TestUtteranceRoundTrip(t *testing.T) {
	conn := testAdapter(t)
	records := []Utterance{
		{AudioPath: `a1.wav`, Text: `yksi kaksi`, CEFRMean: 1.5, Fold: 0, Duration: 3.2},
		{AudioPath: `a2.wav`, Text: `kolme`, CEFRMean: 2.5, Fold: 1, Duration: 1.7},
		{AudioPath: `a3.wav`, Text: `neljä`, CEFRMean: 2.5, Fold: 0, Synthetic: true},
	}
	status := conn.InsertUtterances(records)
	if status != nil {
		t.Fatal(status)
	}
	count, status := conn.CountUtterances()
	if status != nil {
		t.Fatal(status)
	}
	if count != 3 {
		t.Fatal(`expected 3 utterances, got`, count)
	}
	train, status := conn.SelectTrainUtterances(0, false)
	if status != nil {
		t.Fatal(status)
	}
	if len(train) != 1 || train[0].AudioPath != `a2.wav` {
		t.Fatal(`expected only the fold-1 real utterance, got`, len(train))
	}
	if train[0].Duration != 1.7 {
		t.Fatal(`duration not preserved, got`, train[0].Duration)
	}
	synth, status := conn.SelectTrainUtterances(1, true)
	if status != nil {
		t.Fatal(status)
	}
	if len(synth) != 1 || !synth[0].Synthetic {
		t.Fatal(`expected only the synthetic utterance, got`, len(synth))
	}
	val, status := conn.SelectValidationUtterances(0)
	if status != nil {
		t.Fatal(status)
	}
	if len(val) != 1 || val[0].Text != `yksi kaksi` {
		t.Fatal(`expected the fold-0 real utterance in validation`)
	}
}

func TestHypothesesAndMetrics(t *testing.T) {
	conn := testAdapter(t)
	status := conn.InsertUtterances([]Utterance{
		{AudioPath: `a1.wav`, Text: `yksi`, CEFRMean: 1.0, Fold: 0},
	})
	if status != nil {
		t.Fatal(status)
	}
	count, status := conn.InsertHypotheses([]Hypothesis{
		{UtteranceId: 1, EvalPoint: `baseline`, Text: `yksi`},
		{UtteranceId: 1, EvalPoint: `final`, Text: `yks`},
	})
	if status != nil {
		t.Fatal(status)
	}
	if count != 2 {
		t.Fatal(`expected 2 hypotheses inserted, got`, count)
	}
	status = conn.InsertPhaseMetrics(PhaseMetrics{
		EvalPoint: `final`, Phase: 2, Epochs: 4, TrainSize: 180,
		WER: 0.25, CER: 0.08, ElapsedSec: 12.5,
	})
	if status != nil {
		t.Fatal(status)
	}
	metrics, status := conn.SelectPhaseMetrics()
	if status != nil {
		t.Fatal(status)
	}
	if len(metrics) != 1 || metrics[0].EvalPoint != `final` || metrics[0].TrainSize != 180 {
		t.Fatal(`phase metrics round trip failed`)
	}
}
