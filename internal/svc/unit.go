package svc

import (
	"fmt"
	"strings"
)

// SystemdUnit renders the systemd unit file for the descriptor. The
// output is a pure function of the descriptor fields: identical
// descriptors always produce byte-identical text, which is what the
// reinstall/drift tests rely on.
func SystemdUnit(d *Descriptor) (string, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}

	var unit strings.Builder

	unit.WriteString("[Unit]\n")
	unit.WriteString(fmt.Sprintf("Description=%s service\n", d.Name))
	unit.WriteString("After=network.target\n")
	unit.WriteString("\n")

	unit.WriteString("[Service]\n")
	unit.WriteString("Type=simple\n")
	unit.WriteString(fmt.Sprintf("ExecStart=%s\n", execStartLine(d)))
	if d.WorkingDir != "" {
		unit.WriteString(fmt.Sprintf("WorkingDirectory=%s\n", d.WorkingDir))
	}
	unit.WriteString(fmt.Sprintf("Restart=%s\n", systemdRestart(d.Restart)))
	if d.Restart != RestartNever && d.RestartDelay > 0 {
		unit.WriteString(fmt.Sprintf("RestartSec=%d\n", int(d.RestartDelay.Seconds())))
	}
	unit.WriteString("\n")

	unit.WriteString("[Install]\n")
	unit.WriteString("WantedBy=default.target\n")

	return unit.String(), nil
}

// execStartLine joins the command, quoting arguments that contain
// whitespace or shell-special characters the way systemd expects
func execStartLine(d *Descriptor) string {
	line := d.ExecPath
	for _, arg := range d.Args {
		if strings.ContainsAny(arg, " \t\n\"'\\$") {
			arg = fmt.Sprintf("%q", arg)
		}
		line += " " + arg
	}
	return line
}

// systemdRestart maps the policy onto the Restart= directive
func systemdRestart(p RestartPolicy) string {
	switch p {
	case RestartAlways:
		return "always"
	case RestartOnFailure:
		return "on-failure"
	default:
		return "no"
	}
}

// LaunchdPlist renders the launchd property list for the descriptor.
// Each argument becomes its own ProgramArguments entry, order preserved;
// launchd does not word-split, so they are never joined into one string.
// Deterministic for identical descriptors, like SystemdUnit.
func LaunchdPlist(d *Descriptor) (string, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}

	var plist strings.Builder

	plist.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	plist.WriteString("<!DOCTYPE plist PUBLIC \"-//Apple//DTD PLIST 1.0//EN\" \"http://www.apple.com/DTDs/PropertyList-1.0.dtd\">\n")
	plist.WriteString("<plist version=\"1.0\">\n")
	plist.WriteString("<dict>\n")

	plist.WriteString("    <key>Label</key>\n")
	plist.WriteString(fmt.Sprintf("    <string>%s</string>\n", plistEscape(d.Label())))

	plist.WriteString("    <key>ProgramArguments</key>\n")
	plist.WriteString("    <array>\n")
	plist.WriteString(fmt.Sprintf("        <string>%s</string>\n", plistEscape(d.ExecPath)))
	for _, arg := range d.Args {
		plist.WriteString(fmt.Sprintf("        <string>%s</string>\n", plistEscape(arg)))
	}
	plist.WriteString("    </array>\n")

	if d.WorkingDir != "" {
		plist.WriteString("    <key>WorkingDirectory</key>\n")
		plist.WriteString(fmt.Sprintf("    <string>%s</string>\n", plistEscape(d.WorkingDir)))
	}

	plist.WriteString("    <key>RunAtLoad</key>\n")
	plist.WriteString("    <true/>\n")

	plist.WriteString("    <key>KeepAlive</key>\n")
	switch d.Restart {
	case RestartAlways:
		plist.WriteString("    <true/>\n")
	case RestartOnFailure:
		// restart only while the last exit was unsuccessful
		plist.WriteString("    <dict>\n")
		plist.WriteString("        <key>SuccessfulExit</key>\n")
		plist.WriteString("        <false/>\n")
		plist.WriteString("    </dict>\n")
	default:
		plist.WriteString("    <false/>\n")
	}

	if d.StdoutPath != "" {
		plist.WriteString("    <key>StandardOutPath</key>\n")
		plist.WriteString(fmt.Sprintf("    <string>%s</string>\n", plistEscape(d.StdoutPath)))
	}
	if d.StderrPath != "" {
		plist.WriteString("    <key>StandardErrorPath</key>\n")
		plist.WriteString(fmt.Sprintf("    <string>%s</string>\n", plistEscape(d.StderrPath)))
	}

	plist.WriteString("</dict>\n")
	plist.WriteString("</plist>\n")

	return plist.String(), nil
}

// plistEscape escapes the characters XML treats specially
func plistEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
