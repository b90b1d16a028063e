package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type ArgParameter interface {
	Names() []string
	ArgCount() int
	HelpMessage() string
	ValidateAndParse(usedName string, args []string) (interface{}, error)
	DefaultValue() interface{}
}

func NewArgs(defaultUsageExample string) Args {
	return Args{
		nil,
		defaultUsageExample,
		make(map[string]ArgParameter),
	}
}

type Args struct {
	args                []ArgParameter
	defaultUsageExample string
	flagNameToArg       map[string]ArgParameter
}

func (args *Args) add(arg ArgParameter) {
	args.args = append(args.args, arg)
	for _, name := range arg.Names() {
		args.flagNameToArg[name] = arg
	}
}

func (args *Args) AddStringArg(names []string, helpMessage string, defaultValue string) {
	args.add(&stringArg{names, helpMessage, defaultValue})
}

func (args *Args) AddIntegerArg(names []string, helpMessage string, defaultValue int64, minValue int64, maxValue int64) {
	args.add(&integerArg{names, helpMessage, minValue, maxValue, defaultValue})
}

func (args *Args) AddChoiceArg(names []string, helpMessage string, defaultValue string, choices []string) {
	args.add(&choiceArg{names, helpMessage, defaultValue, choices})
}

func (args *Args) AddFlagArg(names []string, helpMessage string) {
	args.add(&flagArg{names, helpMessage})
}

func (args *Args) CreateHelpMessage() string {
	var result = []string{args.defaultUsageExample}

	result = append(result, "")

	for _, arg := range args.args {
		result = append(result, fmt.Sprintf("    %s %s", strings.Join(arg.Names(), ", "), arg.HelpMessage()))
	}

	return strings.Join(result, "\n")
}

// Parse returns the named values, keyed by every name of each parameter,
// the positional arguments and any errors. Parameters that were not given
// hold their default value.
func (args *Args) Parse(stringArgs []string) (map[string]interface{}, []string, []error) {
	var namedArgs = make(map[string]interface{})
	var listArguments []string = nil
	var errs []error = nil

	for index := 0; index < len(stringArgs); {
		var current = stringArgs[index]
		index++

		argParam, ok := args.flagNameToArg[current]

		if ok {
			var maxActualArgs = len(stringArgs) - index
			if maxActualArgs >= argParam.ArgCount() {
				value, err := argParam.ValidateAndParse(current, stringArgs[index:index+argParam.ArgCount()])

				if err != nil {
					errs = append(errs, err)
				} else {
					for _, name := range argParam.Names() {
						namedArgs[name] = value
					}
				}

				index = index + argParam.ArgCount()
			} else {
				errs = append(errs, errors.Errorf("%s expects %d args, got %d", current, argParam.ArgCount(), maxActualArgs))
			}
		} else if len(current) > 1 && current[0] == '-' {
			errs = append(errs, errors.Errorf("Unknown parameter %s", current))
		} else {
			listArguments = append(listArguments, current)
		}
	}

	for name, arg := range args.flagNameToArg {
		if _, has := namedArgs[name]; !has {
			namedArgs[name] = arg.DefaultValue()
		}
	}

	return namedArgs, listArguments, errs
}

// WasSet reports whether any name of the parameter appeared in stringArgs.
func (args *Args) WasSet(stringArgs []string, name string) bool {
	argParam, ok := args.flagNameToArg[name]

	if !ok {
		return false
	}

	for _, current := range stringArgs {
		for _, paramName := range argParam.Names() {
			if current == paramName {
				return true
			}
		}
	}

	return false
}

type stringArg struct {
	names        []string
	helpMessage  string
	defaultValue string
}

func (arg *stringArg) Names() []string {
	return arg.names
}

func (arg *stringArg) ArgCount() int {
	return 1
}

func (arg *stringArg) HelpMessage() string {
	return arg.helpMessage
}

func (arg *stringArg) ValidateAndParse(usedName string, args []string) (interface{}, error) {
	return args[0], nil
}

func (arg *stringArg) DefaultValue() interface{} {
	return arg.defaultValue
}

type integerArg struct {
	names        []string
	helpMessage  string
	minValue     int64
	maxValue     int64
	defaultValue int64
}

func (arg *integerArg) Names() []string {
	return arg.names
}

func (arg *integerArg) ArgCount() int {
	return 1
}

func (arg *integerArg) HelpMessage() string {
	return arg.helpMessage
}

func (arg *integerArg) ValidateAndParse(usedName string, args []string) (interface{}, error) {
	asInt, err := strconv.ParseInt(args[0], 10, 64)

	if err != nil || asInt < arg.minValue || asInt > arg.maxValue {
		return nil, errors.Errorf("%s should be an integer in the range [%d, %d]", usedName, arg.minValue, arg.maxValue)
	}

	return asInt, nil
}

func (arg *integerArg) DefaultValue() interface{} {
	return arg.defaultValue
}

type choiceArg struct {
	names        []string
	helpMessage  string
	defaultValue string
	choices      []string
}

func (arg *choiceArg) Names() []string {
	return arg.names
}

func (arg *choiceArg) ArgCount() int {
	return 1
}

func (arg *choiceArg) HelpMessage() string {
	return fmt.Sprintf("%s (%s)", arg.helpMessage, strings.Join(arg.choices, "|"))
}

func (arg *choiceArg) ValidateAndParse(usedName string, args []string) (interface{}, error) {
	for _, choice := range arg.choices {
		if args[0] == choice {
			return choice, nil
		}
	}

	return nil, errors.Errorf("%s should be one of %s", usedName, strings.Join(arg.choices, ", "))
}

func (arg *choiceArg) DefaultValue() interface{} {
	return arg.defaultValue
}

type flagArg struct {
	names       []string
	helpMessage string
}

func (arg *flagArg) Names() []string {
	return arg.names
}

func (arg *flagArg) ArgCount() int {
	return 0
}

func (arg *flagArg) HelpMessage() string {
	return arg.helpMessage
}

func (arg *flagArg) ValidateAndParse(usedName string, args []string) (interface{}, error) {
	return true, nil
}

func (arg *flagArg) DefaultValue() interface{} {
	return false
}
