package usecase

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"github.com/shandysiswandi/paydota/internal/notification/entity"
	"github.com/shandysiswandi/paydota/internal/pkg/i18n"
)

var noticeLayout = template.Must(template.New("notice").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}" dir="{{.Dir}}">
<head><meta charset="utf-8"><title>{{.Subject}}</title></head>
<body style="font-family:Arial,sans-serif;background:#f5f6f8;margin:0;padding:24px">
<table role="presentation" width="100%" style="max-width:560px;margin:0 auto;background:#ffffff;border-radius:8px;padding:24px">
<tr><td><h2 style="margin:0 0 16px;color:#0b3d91">{{.Headline}}</h2></td></tr>
<tr><td><p style="margin:0 0 16px;line-height:1.5;color:#222">{{.Body}}</p></td></tr>
<tr><td><p style="margin:0;font-size:12px;color:#888">{{.Footer}}</p><p style="margin:4px 0 0;font-size:12px;color:#888">&copy; {{.Year}} PayDota</p></td></tr>
</table>
</body>
</html>`))

type noticeContent struct {
	trigger  entity.TriggerKey
	lang     string
	purpose  string
	phone    string
	occurred time.Time
}

type noticeView struct {
	Lang     string
	Dir      string
	Subject  string
	Headline string
	Body     string
	Footer   string
	Year     string
}

var noticeKeys = map[entity.TriggerKey][3]string{
	entity.TriggerKeyOTPRequested: {i18n.EmailOTPRequestedSubject, i18n.EmailOTPRequestedHeadline, i18n.EmailOTPRequestedBody},
	entity.TriggerKeyOTPVerified:  {i18n.EmailOTPVerifiedSubject, i18n.EmailOTPVerifiedHeadline, i18n.EmailOTPVerifiedBody},
}

func (s *Usecase) renderNotice(c noticeContent) (entity.SecurityNotice, error) {
	lang := i18n.Normalize(c.lang)
	keys := noticeKeys[c.trigger]

	view := noticeView{
		Lang:     lang,
		Dir:      "ltr",
		Subject:  s.trans.T(lang, keys[0]),
		Headline: s.trans.T(lang, keys[1]),
		Body: s.trans.T(lang, keys[2],
			strings.ReplaceAll(c.purpose, "_", " "),
			maskPhone(c.phone),
			c.occurred.UTC().Format("2006-01-02 15:04 UTC"),
		),
		Footer: s.trans.T(lang, i18n.EmailFooter),
		Year:   s.clock.Now().Format("2006"),
	}
	if lang == i18n.LangAR {
		view.Dir = "rtl"
	}

	var buf bytes.Buffer
	if err := noticeLayout.Execute(&buf, view); err != nil {
		return entity.SecurityNotice{}, err
	}

	return entity.SecurityNotice{
		Subject: view.Subject,
		HTML:    buf.String(),
		Text:    view.Headline + "\n\n" + view.Body + "\n\n" + view.Footer,
	}, nil
}

// maskPhone keeps the last four digits.
func maskPhone(phone string) string {
	r := []rune(strings.TrimSpace(phone))
	if len(r) <= 4 {
		return strings.Repeat("*", len(r))
	}
	return strings.Repeat("*", len(r)-4) + string(r[len(r)-4:])
}
