package cli

import (
	"fmt"

	"github.com/diillson/fundraising-dashboard-go/pkg/version"
	"github.com/fatih/color"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(versionStr string) {
	banner := `
         _____                 _               _     _             
        |  ___|   _ _ __   __| |_ __ __ _ ___(_)___(_)_ __   __ _ 
        | |_ | | | | '_ \ / _' | '__/ _' / __| / __| | '_ \ / _' |
        |  _|| |_| | | | | (_| | | | (_| \__ \ \__ \ | | | | (_| |
        |_|   \__,_|_| |_|\__,_|_|  \__,_|___/_|___/_|_| |_|\__, |
                                                           |___/ 
        `
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(green(banner))

	formattedVersion := version.FormatVersion()
	fmt.Println(blue(fmt.Sprintf("Fundraising Dashboard CLI (v%s)", formattedVersion)))
}
