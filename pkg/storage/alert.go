// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/marketpulse/pulse/pkg/alert"
)

// AlertRuleStore is the SQLite-backed alert.RuleStore.
type AlertRuleStore struct {
	s *Storage
}

// AlertRules returns the alert rule store view of the database.
func (s *Storage) AlertRules() *AlertRuleStore { return &AlertRuleStore{s: s} }

func (st *AlertRuleStore) CreateRule(r alert.Rule) (alert.Rule, error) {
	res, err := st.s.db.Exec(`INSERT INTO alert_rules
		(campaign_id, name, metric_name, condition, threshold, channel_type,
		 notify_email, notify_dashboard, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.CampaignID, r.Name, r.MetricName, string(r.Condition), r.Threshold,
		channelToNull(r.ChannelType), r.Notification.Email, r.Notification.Dashboard,
		string(r.Status), r.CreatedAt.UnixNano())
	if err != nil {
		return alert.Rule{}, fmt.Errorf("failed to insert alert rule: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return alert.Rule{}, err
	}
	r.ID = id
	return r, nil
}

const alertRuleColumns = `id, campaign_id, name, metric_name, condition, threshold, channel_type,
	notify_email, notify_dashboard, status, created_at`

func scanAlertRule(row interface{ Scan(...any) error }) (alert.Rule, error) {
	var (
		r         alert.Rule
		channel   sql.NullString
		condition string
		status    string
		createdAt int64
	)
	err := row.Scan(&r.ID, &r.CampaignID, &r.Name, &r.MetricName, &condition, &r.Threshold,
		&channel, &r.Notification.Email, &r.Notification.Dashboard, &status, &createdAt)
	if err != nil {
		return alert.Rule{}, err
	}
	r.Condition = alert.Condition(condition)
	r.Status = alert.RuleStatus(status)
	r.ChannelType = nullToChannel(channel)
	r.CreatedAt = nanosToTime(createdAt)
	return r, nil
}

func (st *AlertRuleStore) GetRule(id int64) (alert.Rule, error) {
	row := st.s.db.QueryRow(`SELECT `+alertRuleColumns+` FROM alert_rules WHERE id = ?`, id)
	r, err := scanAlertRule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return alert.Rule{}, alert.ErrRuleNotFound
	}
	return r, err
}

func (st *AlertRuleStore) ListRules(campaignID int64) ([]alert.Rule, error) {
	rows, err := st.s.db.Query(`SELECT `+alertRuleColumns+` FROM alert_rules
		WHERE campaign_id = ? ORDER BY id`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []alert.Rule
	for rows.Next() {
		r, err := scanAlertRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (st *AlertRuleStore) UpdateRule(r alert.Rule) error {
	res, err := st.s.db.Exec(`UPDATE alert_rules SET
		campaign_id = ?, name = ?, metric_name = ?, condition = ?, threshold = ?,
		channel_type = ?, notify_email = ?, notify_dashboard = ?, status = ? WHERE id = ?`,
		r.CampaignID, r.Name, r.MetricName, string(r.Condition), r.Threshold,
		channelToNull(r.ChannelType), r.Notification.Email, r.Notification.Dashboard,
		string(r.Status), r.ID)
	if err != nil {
		return err
	}
	return requireRow(res, alert.ErrRuleNotFound)
}

func (st *AlertRuleStore) DeleteRule(id int64) error {
	res, err := st.s.db.Exec(`DELETE FROM alert_rules WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, alert.ErrRuleNotFound)
}

// AlertEventStore is the SQLite-backed alert.EventStore.
type AlertEventStore struct {
	s *Storage
}

// AlertEvents returns the alert event store view of the database.
func (s *Storage) AlertEvents() *AlertEventStore { return &AlertEventStore{s: s} }

func (st *AlertEventStore) AppendEvent(e alert.Event) (alert.Event, error) {
	res, err := st.s.db.Exec(`INSERT INTO alert_events
		(rule_id, campaign_id, metric_name, condition, value, threshold, message,
		 is_acknowledged, acknowledged_by, acknowledged_at, triggered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RuleID, e.CampaignID, e.MetricName, string(e.Condition), e.Value, e.Threshold,
		e.Message, e.IsAcknowledged, int64ToNull(e.AcknowledgedBy),
		timeToNull(e.AcknowledgedAt), e.TriggeredAt.UnixNano())
	if err != nil {
		return alert.Event{}, fmt.Errorf("failed to insert alert event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return alert.Event{}, err
	}
	e.ID = id
	return e, nil
}

const alertEventColumns = `id, rule_id, campaign_id, metric_name, condition, value, threshold,
	message, is_acknowledged, acknowledged_by, acknowledged_at, triggered_at`

func scanAlertEvent(row interface{ Scan(...any) error }) (alert.Event, error) {
	var (
		e           alert.Event
		condition   string
		ackedBy     sql.NullInt64
		ackedAt     sql.NullInt64
		triggeredAt int64
	)
	err := row.Scan(&e.ID, &e.RuleID, &e.CampaignID, &e.MetricName, &condition, &e.Value,
		&e.Threshold, &e.Message, &e.IsAcknowledged, &ackedBy, &ackedAt, &triggeredAt)
	if err != nil {
		return alert.Event{}, err
	}
	e.Condition = alert.Condition(condition)
	e.AcknowledgedBy = nullToInt64(ackedBy)
	e.AcknowledgedAt = nullToTime(ackedAt)
	e.TriggeredAt = nanosToTime(triggeredAt)
	return e, nil
}

func (st *AlertEventStore) GetEvent(id int64) (alert.Event, error) {
	row := st.s.db.QueryRow(`SELECT `+alertEventColumns+` FROM alert_events WHERE id = ?`, id)
	e, err := scanAlertEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return alert.Event{}, alert.ErrEventNotFound
	}
	return e, err
}

func (st *AlertEventStore) ListEvents(campaignID int64) ([]alert.Event, error) {
	rows, err := st.s.db.Query(`SELECT `+alertEventColumns+` FROM alert_events
		WHERE campaign_id = ? ORDER BY id`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []alert.Event
	for rows.Next() {
		e, err := scanAlertEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (st *AlertEventStore) UpdateEvent(e alert.Event) error {
	res, err := st.s.db.Exec(`UPDATE alert_events SET
		is_acknowledged = ?, acknowledged_by = ?, acknowledged_at = ? WHERE id = ?`,
		e.IsAcknowledged, int64ToNull(e.AcknowledgedBy), timeToNull(e.AcknowledgedAt), e.ID)
	if err != nil {
		return err
	}
	return requireRow(res, alert.ErrEventNotFound)
}

var (
	_ alert.RuleStore  = (*AlertRuleStore)(nil)
	_ alert.EventStore = (*AlertEventStore)(nil)
)
