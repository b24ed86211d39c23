package widget

import (
	"html/template"
	"strings"
)

// Widget markup. Wrapper classes are what Inspect and the editor look for;
// mceNonEditable keeps TinyMCE from editing inside them.
var (
	footerTemplate  = template.Must(template.New("footer").Parse(footerHTML))
	ctaTemplate     = template.Must(template.New("cta").Parse(ctaHTML))
	dividerTemplate = template.Must(template.New("divider").Parse(dividerHTML))
	headerTemplate  = template.Must(template.New("header").Parse(headerHTML))
)

const footerHTML = `<p></p><div class="bbyo-footer-wrapper mceNonEditable" contenteditable="false" data-color="{{.Name}}"><table role="presentation" align="center" border="0" cellpadding="0" cellspacing="0" width="600">
  <tr><td>
<table role="presentation" align="center" cellspacing="0" cellpadding="0" border="0" class="bbyo-footer" style="width:100%;max-width:600px;border-collapse:collapse;mso-table-lspace:0;mso-table-rspace:0;">
  <tr>
    <td class="px-20" style="padding-left:15px;padding-right:15px;">
      <table role="presentation" width="100%" cellpadding="0" cellspacing="0" border="0" style="border-collapse:collapse;mso-table-lspace:0;mso-table-rspace:0;">
        <tr>
          <td width="234" class="col-logo" valign="top" style="width:234px;">
            <a href="https://www.bbyo.org" target="_blank" style="text-decoration:none;">
              <img src="{{.Logo}}" class="logo" width="234" height="78" alt="BBYO" style="display:block;border:0;width:234px;height:78px;">
            </a>
          </td>
          <td width="12" class="col-gap" style="width:12px;font-size:0;line-height:0;">&nbsp;</td>
          <td class="col-social social-td pt-25" valign="middle" align="right" style="text-align:right;padding-top:25px;">
            <table role="presentation" cellpadding="0" cellspacing="0" border="0" class="social-table" style="border-collapse:collapse;mso-table-lspace:0;mso-table-rspace:0;margin-left:auto;">
              <tr>
                <td valign="top">
                  <a href="https://www.facebook.com/BBYOInsider" target="_blank" style="display:inline-block;">
                    <img src="{{.Facebook}}" width="36" height="36" alt="Facebook" style="display:block;border:0;width:36px;height:36px;">
                  </a>
                </td>
                <td width="5" style="font-size:0;line-height:0;">&nbsp;</td>
                <td valign="top">
                  <a href="https://www.instagram.com/bbyoinsider" target="_blank" style="display:inline-block;">
                    <img src="{{.Instagram}}" width="36" height="36" alt="Instagram" style="display:block;border:0;width:36px;height:36px;">
                  </a>
                </td>
                <td width="5" style="font-size:0;line-height:0;">&nbsp;</td>
                <td valign="top">
                  <a href="https://x.com/BBYOInsider" target="_blank" style="display:inline-block;">
                    <img src="{{.X}}" width="36" height="36" alt="X" style="display:block;border:0;width:36px;height:36px;">
                  </a>
                </td>
                <td width="5" style="font-size:0;line-height:0;">&nbsp;</td>
                <td valign="top">
                  <a href="https://www.youtube.com/user/BBYOtube" target="_blank" style="display:inline-block;">
                    <img src="{{.YouTube}}" width="36" height="36" alt="YouTube" style="display:block;border:0;width:36px;height:36px;">
                  </a>
                </td>
                <td width="5" style="font-size:0;line-height:0;">&nbsp;</td>
                <td valign="top">
                  <a href="https://www.tiktok.com/@bbyoinsider" target="_blank" style="display:inline-block;">
                    <img src="{{.TikTok}}" width="36" height="36" alt="TikTok" style="display:block;border:0;width:36px;height:36px;">
                  </a>
                </td>
                <td width="5" style="font-size:0;line-height:0;">&nbsp;</td>
                <td valign="top">
                  <a href="https://www.snapchat.com/add/bbyoinsider" target="_blank" style="display:inline-block;">
                    <img src="{{.Snapchat}}" width="36" height="36" alt="Snapchat" style="display:block;border:0;width:36px;height:36px;">
                  </a>
                </td>
                <td width="5" style="font-size:0;line-height:0;">&nbsp;</td>
                <td valign="top">
                  <a href="https://www.linkedin.com/company/bbyo" target="_blank" style="display:inline-block;">
                    <img src="{{.LinkedIn}}" width="36" height="36" alt="LinkedIn" style="display:block;border:0;width:36px;height:36px;">
                  </a>
                </td>
              </tr>
            </table>
          </td>
        </tr>
      </table>
      <div style="clear:both;line-height:0;font-size:0;">&nbsp;</div>
    </td>
  </tr>
</table>
</td></tr></table>
</div>`

const ctaHTML = `<table width="100%" role="presentation" border="0" cellspacing="0" cellpadding="0" class="bbyo-cta-wrapper mceNonEditable" contenteditable="false" data-align="{{.Align}}">
<tr>
<td align="{{.Align}}">
<table role="presentation" border="0" cellspacing="0" cellpadding="0">
<tr>
<td class="innertd buttonblock" bgcolor="{{.BgColor}}" style="border-radius:99px; -moz-border-radius:99px; -webkit-border-radius:99px; color:{{.TextColor}}; background-color:{{.BgColor}};">
<a target="_blank" class="bbyo-cta buttonstyles" data-color-scheme="{{.Scheme}}" style="font-size:16px; font-family:Arial, Helvetica, sans-serif; color:{{.TextColor}}; text-align:center; text-decoration:none; display:block; font-weight:bold; line-height:100%; background-color:{{.BgColor}}; border:15px solid {{.BgColor}}; padding:0px; border-radius:99px; -moz-border-radius:99px; -webkit-border-radius:99px;" href="{{.Link}}" title="{{.Title}}" alias="{{.Alias}}" conversion="true">{{.Text}}</a>
</td>
</tr>
</table>
</td>
</tr>
</table>`

const dividerHTML = `<div class="bbyo-hr-wrapper mceNonEditable" contenteditable="false" data-widget="hr"><hr class="bbyo-hr-line" style="width:{{.Width}}%;height:{{.Height}}px;background-color:{{.Color}};border:0;margin:16px auto;"></div>`

const headerHTML = `<img class="bbyo-header-image" src="{{.}}" width="600" style="display:block;width:600px;height:auto;border:0;outline:none;text-decoration:none;" /><p></p>`

func render(t *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
