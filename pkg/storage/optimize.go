// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/marketpulse/pulse/pkg/metrics"
	"github.com/marketpulse/pulse/pkg/optimize"
)

// OptimizeRuleStore is the SQLite-backed optimize.RuleStore.
type OptimizeRuleStore struct {
	s *Storage
}

// OptimizeRules returns the rule store view of the database.
func (s *Storage) OptimizeRules() *OptimizeRuleStore { return &OptimizeRuleStore{s: s} }

func (st *OptimizeRuleStore) CreateRule(r optimize.Rule) (optimize.Rule, error) {
	params, err := json.Marshal(r.ActionParams)
	if err != nil {
		return optimize.Rule{}, fmt.Errorf("failed to encode action params: %w", err)
	}
	res, err := st.s.db.Exec(`INSERT INTO optimize_rules
		(campaign_id, name, channel_type, metric, condition, threshold, lookback_days,
		 action_type, action_params, status, last_evaluated_at, last_triggered_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.CampaignID, r.Name, channelToNull(r.ChannelType), string(r.Metric), string(r.Condition),
		r.Threshold, r.LookbackDays, string(r.ActionType), string(params), string(r.Status),
		timeToNull(r.LastEvaluatedAt), timeToNull(r.LastTriggeredAt), r.CreatedAt.UnixNano())
	if err != nil {
		return optimize.Rule{}, fmt.Errorf("failed to insert rule: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return optimize.Rule{}, err
	}
	r.ID = id
	return r, nil
}

const optimizeRuleColumns = `id, campaign_id, name, channel_type, metric, condition, threshold,
	lookback_days, action_type, action_params, status, last_evaluated_at, last_triggered_at, created_at`

func scanOptimizeRule(row interface{ Scan(...any) error }) (optimize.Rule, error) {
	var (
		r          optimize.Rule
		channel    sql.NullString
		params     string
		evaluated  sql.NullInt64
		triggered  sql.NullInt64
		createdAt  int64
		metric     string
		condition  string
		actionType string
		status     string
	)
	err := row.Scan(&r.ID, &r.CampaignID, &r.Name, &channel, &metric, &condition, &r.Threshold,
		&r.LookbackDays, &actionType, &params, &status, &evaluated, &triggered, &createdAt)
	if err != nil {
		return optimize.Rule{}, err
	}
	r.Metric = optimize.Metric(metric)
	r.Condition = optimize.Condition(condition)
	r.ActionType = optimize.ActionType(actionType)
	r.Status = optimize.RuleStatus(status)
	r.ChannelType = nullToChannel(channel)
	r.LastEvaluatedAt = nullToTime(evaluated)
	r.LastTriggeredAt = nullToTime(triggered)
	r.CreatedAt = nanosToTime(createdAt)
	if err := json.Unmarshal([]byte(params), &r.ActionParams); err != nil {
		return optimize.Rule{}, fmt.Errorf("failed to decode action params: %w", err)
	}
	return r, nil
}

func (st *OptimizeRuleStore) GetRule(id int64) (optimize.Rule, error) {
	row := st.s.db.QueryRow(`SELECT `+optimizeRuleColumns+` FROM optimize_rules WHERE id = ?`, id)
	r, err := scanOptimizeRule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return optimize.Rule{}, optimize.ErrRuleNotFound
	}
	return r, err
}

func (st *OptimizeRuleStore) ListRules(campaignID int64) ([]optimize.Rule, error) {
	rows, err := st.s.db.Query(`SELECT `+optimizeRuleColumns+` FROM optimize_rules
		WHERE campaign_id = ? ORDER BY id`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []optimize.Rule
	for rows.Next() {
		r, err := scanOptimizeRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (st *OptimizeRuleStore) UpdateRule(r optimize.Rule) error {
	params, err := json.Marshal(r.ActionParams)
	if err != nil {
		return fmt.Errorf("failed to encode action params: %w", err)
	}
	res, err := st.s.db.Exec(`UPDATE optimize_rules SET
		campaign_id = ?, name = ?, channel_type = ?, metric = ?, condition = ?, threshold = ?,
		lookback_days = ?, action_type = ?, action_params = ?, status = ?,
		last_evaluated_at = ?, last_triggered_at = ? WHERE id = ?`,
		r.CampaignID, r.Name, channelToNull(r.ChannelType), string(r.Metric), string(r.Condition),
		r.Threshold, r.LookbackDays, string(r.ActionType), string(params), string(r.Status),
		timeToNull(r.LastEvaluatedAt), timeToNull(r.LastTriggeredAt), r.ID)
	if err != nil {
		return err
	}
	return requireRow(res, optimize.ErrRuleNotFound)
}

func (st *OptimizeRuleStore) DeleteRule(id int64) error {
	res, err := st.s.db.Exec(`DELETE FROM optimize_rules WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, optimize.ErrRuleNotFound)
}

// ActionLogStore is the SQLite-backed optimize.ActionLogStore.
type ActionLogStore struct {
	s *Storage
}

// ActionLogs returns the log store view of the database.
func (s *Storage) ActionLogs() *ActionLogStore { return &ActionLogStore{s: s} }

func (st *ActionLogStore) AppendLog(l optimize.ActionLog) (optimize.ActionLog, error) {
	res, err := st.s.db.Exec(`INSERT INTO action_logs
		(rule_id, campaign_id, action_type, target_entity, previous_value, new_value,
		 reason, status, executed_at, executed_by, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		int64ToNull(l.RuleID), l.CampaignID, string(l.ActionType), l.TargetEntity,
		l.PreviousValue, l.NewValue, l.Reason, string(l.Status),
		l.ExecutedAt.UnixNano(), string(l.ExecutedBy), int64ToNull(l.UserID))
	if err != nil {
		return optimize.ActionLog{}, fmt.Errorf("failed to insert action log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return optimize.ActionLog{}, err
	}
	l.ID = id
	return l, nil
}

const actionLogColumns = `id, rule_id, campaign_id, action_type, target_entity, previous_value,
	new_value, reason, status, executed_at, executed_by, user_id`

func scanActionLog(row interface{ Scan(...any) error }) (optimize.ActionLog, error) {
	var (
		l          optimize.ActionLog
		ruleID     sql.NullInt64
		userID     sql.NullInt64
		executedAt int64
		actionType string
		status     string
		executedBy string
	)
	err := row.Scan(&l.ID, &ruleID, &l.CampaignID, &actionType, &l.TargetEntity, &l.PreviousValue,
		&l.NewValue, &l.Reason, &status, &executedAt, &executedBy, &userID)
	if err != nil {
		return optimize.ActionLog{}, err
	}
	l.RuleID = nullToInt64(ruleID)
	l.UserID = nullToInt64(userID)
	l.ActionType = optimize.ActionType(actionType)
	l.Status = optimize.LogStatus(status)
	l.ExecutedBy = optimize.ExecutedBy(executedBy)
	l.ExecutedAt = nanosToTime(executedAt)
	return l, nil
}

func (st *ActionLogStore) GetLog(id int64) (optimize.ActionLog, error) {
	row := st.s.db.QueryRow(`SELECT `+actionLogColumns+` FROM action_logs WHERE id = ?`, id)
	l, err := scanActionLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return optimize.ActionLog{}, optimize.ErrLogNotFound
	}
	return l, err
}

func (st *ActionLogStore) ListLogs(campaignID int64) ([]optimize.ActionLog, error) {
	rows, err := st.s.db.Query(`SELECT `+actionLogColumns+` FROM action_logs
		WHERE campaign_id = ? ORDER BY id`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []optimize.ActionLog
	for rows.Next() {
		l, err := scanActionLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (st *ActionLogStore) SetLogStatus(id int64, status optimize.LogStatus) error {
	res, err := st.s.db.Exec(`UPDATE action_logs SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	return requireRow(res, optimize.ErrLogNotFound)
}

// SuggestionStore is the SQLite-backed optimize.SuggestionStore.
type SuggestionStore struct {
	s *Storage
}

// Suggestions returns the suggestion store view of the database.
func (s *Storage) Suggestions() *SuggestionStore { return &SuggestionStore{s: s} }

func (st *SuggestionStore) PutSuggestion(sg optimize.Suggestion) error {
	_, err := st.s.db.Exec(`INSERT INTO suggestions
		(id, campaign_id, action_type, target, text, expected_impact, confidence, priority, source, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET status = excluded.status`,
		sg.ID, sg.CampaignID, string(sg.ActionType), sg.Target, sg.Text, sg.ExpectedImpact,
		sg.Confidence, sg.Priority, string(sg.Source), string(sg.Status), sg.CreatedAt.UnixNano())
	return err
}

const suggestionColumns = `id, campaign_id, action_type, target, text, expected_impact,
	confidence, priority, source, status, created_at`

func scanSuggestion(row interface{ Scan(...any) error }) (optimize.Suggestion, error) {
	var (
		sg         optimize.Suggestion
		actionType string
		source     string
		status     string
		createdAt  int64
	)
	err := row.Scan(&sg.ID, &sg.CampaignID, &actionType, &sg.Target, &sg.Text, &sg.ExpectedImpact,
		&sg.Confidence, &sg.Priority, &source, &status, &createdAt)
	if err != nil {
		return optimize.Suggestion{}, err
	}
	sg.ActionType = optimize.ActionType(actionType)
	sg.Source = optimize.ExecutedBy(source)
	sg.Status = optimize.SuggestionStatus(status)
	sg.CreatedAt = nanosToTime(createdAt)
	return sg, nil
}

func (st *SuggestionStore) GetSuggestion(id string) (optimize.Suggestion, error) {
	row := st.s.db.QueryRow(`SELECT `+suggestionColumns+` FROM suggestions WHERE id = ?`, id)
	sg, err := scanSuggestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return optimize.Suggestion{}, optimize.ErrSuggestionNotFound
	}
	return sg, err
}

func (st *SuggestionStore) ListSuggestions(campaignID int64) ([]optimize.Suggestion, error) {
	rows, err := st.s.db.Query(`SELECT `+suggestionColumns+` FROM suggestions
		WHERE campaign_id = ? ORDER BY created_at, id`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []optimize.Suggestion
	for rows.Next() {
		sg, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sg)
	}
	return out, rows.Err()
}

func (st *SuggestionStore) SetSuggestionStatus(id string, status optimize.SuggestionStatus) error {
	res, err := st.s.db.Exec(`UPDATE suggestions SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	return requireRow(res, optimize.ErrSuggestionNotFound)
}

func channelToNull(ct *metrics.ChannelType) sql.NullString {
	if ct == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*ct), Valid: true}
}

func nullToChannel(n sql.NullString) *metrics.ChannelType {
	if !n.Valid {
		return nil
	}
	ct := metrics.ChannelType(n.String)
	return &ct
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

var (
	_ optimize.RuleStore       = (*OptimizeRuleStore)(nil)
	_ optimize.ActionLogStore  = (*ActionLogStore)(nil)
	_ optimize.SuggestionStore = (*SuggestionStore)(nil)
)
