package shell

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nerrad567/brewshell/internal/history"
	"github.com/nerrad567/brewshell/internal/rtu"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Render()
}

func renderDevices(devices []rtu.Device) string {
	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		addr := strconv.Itoa(int(d.Addr))
		if !d.Kind.IsRelay() {
			addr = "-"
		}
		rows = append(rows, []string{
			d.ID,
			d.Name,
			d.Kind.String(),
			strconv.Itoa(int(d.ControllerAddr)),
			addr,
			d.Port,
		})
	}

	return titleStyle.Render("Configured Devices") + "\n" +
		renderTable([]string{"ID", "Name", "Type", "Controller Addr", "Device Addr", "Port"}, rows)
}

type commandSection struct {
	title string
	rows  [][]string
}

var deviceSections = []commandSection{
	{
		title: "Waveshare Commands",
		rows: [][]string{
			{"[relayID]", "Gets the relay state"},
			{"[relayID] [on|off|1|0]", "Switches the relay on or off"},
			{"[relayID] list_all", "Lists every relay on this relay's controller"},
			{"[relayID] set_all [on|off|1|0]", "Switches every relay on this relay's controller"},
			{"[relayID] get_cn", "Reads the controller number the board answers to, whatever the RTU conf says"},
			{"[relayID] set_cn [0-254]", "Sets a new controller number; update controller_address in the RTU conf afterwards"},
			{"[relayID] software_revision", "Reads the board's software revision"},
		},
	},
	{
		title: "STR1 Commands",
		rows: [][]string{
			{"[relayID]", "Gets the relay state"},
			{"[relayID] [on|off|1|0]", "Switches the relay on or off"},
			{"[relayID] list_all", "Lists every relay on this relay's controller"},
			{"[relayID] set_all [on|off|1|0]", "Switches every relay on this relay's controller, one at a time"},
			{"[relayID] set_cn [0-254]", "Sets a new controller number; update controller_address in the RTU conf afterwards"},
		},
	},
	{
		title: "CN7500 Commands",
		rows: [][]string{
			{"[deviceID]", "Gets the PV, SV and run state"},
			{"[deviceID] pv", "Gets the process value (actual temperature)"},
			{"[deviceID] sv", "Gets the setpoint value (target temperature)"},
			{"[deviceID] set [#.#]", "Sets the SV"},
			{"[deviceID] is_running", "Gets the run state"},
			{"[deviceID] run", "Starts the controller"},
			{"[deviceID] stop", "Stops the controller"},
			{"[deviceID] degrees [F|C]", "Sets the temperature unit"},
			{"[deviceID] watch", "Prints PV, SV and run state every few seconds until Ctrl-C"},
		},
	},
}

func renderCommandsPage(general [][]string) string {
	sections := append([]commandSection{{title: "General Commands", rows: general}}, deviceSections...)

	var b strings.Builder
	for _, sec := range sections {
		b.WriteString(titleStyle.Render(sec.title))
		b.WriteString("\n")
		b.WriteString(renderTable([]string{"Command", "Help"}, sec.rows))
		b.WriteString("\n")
	}
	return b.String()
}

func renderHistory(entries []history.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		result := "ok"
		if !e.OK {
			result = e.Error
		}
		rows = append(rows, []string{
			e.At.Local().Format(TimeLayout),
			e.DeviceID,
			e.Command,
			e.Args,
			result,
		})
	}
	return renderTable([]string{"Time", "Device", "Command", "Args", "Result"}, rows)
}
