package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	switchFlagTypeName       = "switch"
	switchNegationPrefix     = "no-"
	switchTrueLiteral        = "true"
	switchAcceptedLiterals   = "true, false, yes, no, on, off, 1, 0"
	switchInvalidValueFormat = "invalid value %q for --%s; accepted values: %s"
	switchNegationUsage      = "same as --%s=false"
)

var switchLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// switchValue is a boolean flag value that also accepts yes/no and on/off.
type switchValue struct {
	target *bool
	name   string
	negate bool
}

func (value *switchValue) Set(input string) error {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = switchTrueLiteral
	}
	parsed, ok := switchLiterals[normalized]
	if !ok {
		return fmt.Errorf(switchInvalidValueFormat, input, value.name, switchAcceptedLiterals)
	}
	*value.target = parsed != value.negate
	return nil
}

func (value *switchValue) String() string {
	if value == nil || value.target == nil {
		return ""
	}
	return strconv.FormatBool(*value.target != value.negate)
}

func (value *switchValue) Type() string {
	return switchFlagTypeName
}

// registerSwitchFlag registers --name and a hidden --no-name that clears it.
func registerSwitchFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&switchValue{target: target, name: name}, name, usage)
	flag := flagSet.Lookup(name)
	flag.DefValue = strconv.FormatBool(defaultValue)
	flag.NoOptDefVal = switchTrueLiteral

	negatedName := switchNegationPrefix + name
	flagSet.Var(&switchValue{target: target, name: negatedName, negate: true}, negatedName, fmt.Sprintf(switchNegationUsage, name))
	negated := flagSet.Lookup(negatedName)
	negated.NoOptDefVal = switchTrueLiteral
	negated.Hidden = true
}

// switchChanged reports whether the user set the switch in either form.
func switchChanged(flagSet *pflag.FlagSet, name string) bool {
	return flagSet.Changed(name) || flagSet.Changed(switchNegationPrefix+name)
}

// normalizeSwitchArguments rewrites "--name value" into "--name=value" for
// switch flags when value is a recognized literal, so a following path is
// never swallowed as the flag value.
func normalizeSwitchArguments(command *cobra.Command, arguments []string) []string {
	switches := map[string]struct{}{}
	collectSwitchNames(command, switches)
	if len(switches) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == "--" {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		name, isLong := strings.CutPrefix(argument, "--")
		if _, isSwitch := switches[name]; isLong && isSwitch && index+1 < len(arguments) {
			next := strings.ToLower(strings.TrimSpace(arguments[index+1]))
			if _, isLiteral := switchLiterals[next]; isLiteral {
				normalized = append(normalized, argument+"="+arguments[index+1])
				index++
				continue
			}
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

func collectSwitchNames(command *cobra.Command, target map[string]struct{}) {
	visit := func(flag *pflag.Flag) {
		if flag.Value.Type() == switchFlagTypeName {
			target[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(visit)
	command.Flags().VisitAll(visit)
	for _, child := range command.Commands() {
		collectSwitchNames(child, target)
	}
}
