package pipeline

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/codes"

	"github.com/drewzambelli/wtml/lib/timezone"
)

// EmailReport mails a plain text run report to the configured
// operators. It is a no-op when smtp is not configured, scheduled
// runs on a laptop should not fail over a missing mail server.
func (p *Pipeline) EmailReport(ctx context.Context, outcome string) error {
	if p.Config.Smtp.Server == "" || len(p.Config.Smtp.To) == 0 {
		return nil
	}
	_, span := tracer.Start(ctx, "pipeline:EmailReport")
	defer span.End()

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("House Data Pipeline <%s>", p.Config.Smtp.EmailAddress)
	mail.To = p.Config.Smtp.To
	mail.Subject = fmt.Sprintf("wtml run %s: %s", timezone.Now().Format("2006-01-02"), outcome)
	mail.Text = []byte(p.reportBody(outcome))

	err := mail.Send(
		fmt.Sprintf("%s:%d", p.Config.Smtp.Server, p.Config.Smtp.Port),
		smtp.PlainAuth("", p.Config.Smtp.EmailAddress, p.Config.Smtp.Password, p.Config.Smtp.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(fmt.Sprintf("%s:%d", p.Config.Smtp.Server, p.Config.Smtp.Port), nil)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to send run report")
			return err
		}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send run report")
		return err
	}

	return nil
}

func (p *Pipeline) reportBody(outcome string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "house data pipeline run finished: %s\n", outcome)
	fmt.Fprintf(&b, "started: %s\n", p.Stats.Started.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "elapsed: %s\n\n", p.Stats.Elapsed())
	for _, row := range p.Stats.Rows() {
		fmt.Fprintf(&b, "%s: %d\n", row.Name, row.Value)
	}
	return b.String()
}
