package nurture

import (
	"github.com/bwmarrin/discordgo"
)

const (
	ActivityOption    = "activity"
	SideOption        = "side"
	FeedingTypeOption = "feeding_type"
	AmountOption      = "amount_ml"
	DiaperOption      = "diaper"
	FoodsOption       = "foods"
	NotesOption       = "notes"
	MinutesAgoOption  = "minutes_ago"
	MinutesOption     = "minutes"
	DurationOption    = "duration"
	CountOption       = "count"
	IDOption          = "id"
	EnabledOption     = "enabled"
	FeedingOption     = "feeding"
	SleepOption       = "sleep"
	NameOption        = "name"
	SexOption         = "sex"
	BirthDateOption   = "birth_date"
	WeightOption      = "weight"
	LengthOption      = "length"
	HeadOption        = "head"
	WeightUnitOption  = "weight_unit"
	LengthUnitOption  = "length_unit"
	DaysAgoOption     = "days_ago"
	FrozenOption      = "frozen"
	HoursOption       = "hours"
)

// Subcommands of /stash and /health.
const (
	StashAddSubcommand         = "add"
	StashUseSubcommand         = "use"
	StashListSubcommand        = "list"
	HealthVaccinesSubcommand   = "vaccines"
	HealthMilestonesSubcommand = "milestones"
	HealthCheckSubcommand      = "check"
)

func float64Ptr(f float64) *float64 {
	return &f
}

func activityChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(ActivityTypes))
	for _, t := range ActivityTypes {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  t.String(),
			Value: t.String(),
		})
	}
	return choices
}

func stringChoices(values ...string) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(values))
	for _, v := range values {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: v, Value: v})
	}
	return choices
}

var StartCommand = discordgo.ApplicationCommand{
	Name:        "start",
	Description: "start an activity timer",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        ActivityOption,
			Description: "activity to track",
			Required:    true,
			Choices:     activityChoices(),
		},
	},
}

var PauseCommand = discordgo.ApplicationCommand{
	Name:        "pause",
	Description: "pause or resume the running timer",
}

var SnoozeCommand = discordgo.ApplicationCommand{
	Name:        "snooze",
	Description: "pause the running timer and resume it automatically",
}

var StopCommand = discordgo.ApplicationCommand{
	Name:        "stop",
	Description: "stop the running timer and save it to history",
}

var CancelCommand = discordgo.ApplicationCommand{
	Name:        "cancel",
	Description: "discard the running timer without saving",
}

var StatusCommand = discordgo.ApplicationCommand{
	Name:        "status",
	Description: "show the running timer and the last activity of each type",
}

// detailOptions are the activity detail fields shared by /details and /log.
func detailOptions() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        SideOption,
			Description: "feeding side",
			Choices:     stringChoices(string(LeftSide), string(RightSide), string(BothSides)),
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        FeedingTypeOption,
			Description: "nursing or bottle",
			Choices:     stringChoices(string(Nursing), string(Bottle)),
		},
		{
			Type:        discordgo.ApplicationCommandOptionNumber,
			Name:        AmountOption,
			Description: "amount in ml",
			MinValue:    float64Ptr(0),
			MaxValue:    1000,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        DiaperOption,
			Description: "diaper condition",
			Choices:     stringChoices(string(Wet), string(Dirty), string(Mixed)),
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        FoodsOption,
			Description: "comma separated foods",
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        NotesOption,
			Description: "free text notes",
		},
	}
}

var DetailsCommand = discordgo.ApplicationCommand{
	Name:        "details",
	Description: "update details of the running timer",
	Options:     detailOptions(),
}

var EditStartCommand = discordgo.ApplicationCommand{
	Name:        "edit-start",
	Description: "correct the start time of the running timer",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        MinutesAgoOption,
			Description: "the activity started this many minutes ago",
			Required:    true,
			MinValue:    float64Ptr(0),
			MaxValue:    24 * 60,
		},
	},
}

var SleepCommand = discordgo.ApplicationCommand{
	Name:        "sleep",
	Description: "quickly log a sleep that just ended",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        MinutesOption,
			Description: "sleep length in minutes",
			Required:    true,
			MinValue:    float64Ptr(1),
			MaxValue:    24 * 60,
		},
	},
}

var LogCommand = discordgo.ApplicationCommand{
	Name:        "log",
	Description: "add a past activity to history, without a duration for a one-off event",
	Options: append([]*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        ActivityOption,
			Description: "activity type",
			Required:    true,
			Choices:     activityChoices(),
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        MinutesAgoOption,
			Description: "the activity started this many minutes ago",
			Required:    true,
			MinValue:    float64Ptr(0),
			MaxValue:    7 * 24 * 60,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        DurationOption,
			Description: "duration in minutes, leave out for a one-off event like a diaper change",
			MinValue:    float64Ptr(1),
			MaxValue:    24 * 60,
		},
	}, detailOptions()...),
}

var EditCommand = discordgo.ApplicationCommand{
	Name:        "edit",
	Description: "move a history entry to a new time",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        IDOption,
			Description: "entry id as shown by /history",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        MinutesAgoOption,
			Description: "the activity started this many minutes ago",
			Required:    true,
			MinValue:    float64Ptr(0),
			MaxValue:    7 * 24 * 60,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        DurationOption,
			Description: "duration in minutes, leave out for a one-off event",
			MinValue:    float64Ptr(1),
			MaxValue:    24 * 60,
		},
	},
}

var HistoryCommand = discordgo.ApplicationCommand{
	Name:        "history",
	Description: "list recent activities",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        CountOption,
			Description: "number of entries (Default: 10)",
			MinValue:    float64Ptr(1),
			MaxValue:    50,
		},
	},
}

var DeleteCommand = discordgo.ApplicationCommand{
	Name:        "delete",
	Description: "delete an activity from history",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        IDOption,
			Description: "entry id as shown by /history",
			Required:    true,
		},
	},
}

var RemindersCommand = discordgo.ApplicationCommand{
	Name:        "reminders",
	Description: "configure reminders",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        EnabledOption,
			Description: "turn reminders on or off",
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        FeedingOption,
			Description: "remind after this many minutes without feeding (0 disables)",
			MinValue:    float64Ptr(0),
			MaxValue:    24 * 60,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        SleepOption,
			Description: "remind after this many minutes without sleep (0 disables)",
			MinValue:    float64Ptr(0),
			MaxValue:    24 * 60,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        DiaperOption,
			Description: "remind after this many minutes without a diaper change (0 disables)",
			MinValue:    float64Ptr(0),
			MaxValue:    24 * 60,
		},
	},
}

var ProfileCommand = discordgo.ApplicationCommand{
	Name:        "profile",
	Description: "set the baby profile",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        NameOption,
			Description: "name",
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        SexOption,
			Description: "used to pick the WHO reference table",
			Choices:     stringChoices(string(Boy), string(Girl)),
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        BirthDateOption,
			Description: "birth date as YYYY-MM-DD",
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        WeightUnitOption,
			Description: "unit for entering and showing weight",
			Choices:     stringChoices("kg", "lb"),
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        LengthUnitOption,
			Description: "unit for entering and showing length and head circumference",
			Choices:     stringChoices("cm", "in"),
		},
	},
}

var GrowthCommand = discordgo.ApplicationCommand{
	Name:        "growth",
	Description: "record a growth measurement and compare it with WHO percentiles",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionNumber,
			Name:        WeightOption,
			Description: "weight in the profile unit (kg or lb)",
			MinValue:    float64Ptr(0),
			MaxValue:    110,
		},
		{
			Type:        discordgo.ApplicationCommandOptionNumber,
			Name:        LengthOption,
			Description: "length in the profile unit (cm or in)",
			MinValue:    float64Ptr(0),
			MaxValue:    150,
		},
		{
			Type:        discordgo.ApplicationCommandOptionNumber,
			Name:        HeadOption,
			Description: "head circumference in the profile unit (cm or in)",
			MinValue:    float64Ptr(0),
			MaxValue:    70,
		},
	},
}

var GrowthHistoryCommand = discordgo.ApplicationCommand{
	Name:        "growth-history",
	Description: "list recorded growth measurements",
}

var GrowthDeleteCommand = discordgo.ApplicationCommand{
	Name:        "growth-delete",
	Description: "delete a growth measurement",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        IDOption,
			Description: "measurement id as shown by /growth-history",
			Required:    true,
		},
	},
}

var StashCommand = discordgo.ApplicationCommand{
	Name:        "stash",
	Description: "manage the stored breast milk",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        StashAddSubcommand,
			Description: "add a bag of expressed milk",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionNumber,
					Name:        AmountOption,
					Description: "amount in ml",
					Required:    true,
					MinValue:    float64Ptr(1),
					MaxValue:    1000,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        DaysAgoOption,
					Description: "expressed this many days ago (Default: 0)",
					MinValue:    float64Ptr(0),
					MaxValue:    365,
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        FrozenOption,
					Description: "stored in the freezer (Default: true)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        NotesOption,
					Description: "free text notes",
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        StashUseSubcommand,
			Description: "take a bag out of the stash",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        IDOption,
					Description: "bag id as shown by /stash list",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        StashListSubcommand,
			Description: "list the stash oldest first",
		},
	},
}

var SummaryCommand = discordgo.ApplicationCommand{
	Name:        "summary",
	Description: "show today's totals and the sleep trend of the last week",
}

var SleepGoalCommand = discordgo.ApplicationCommand{
	Name:        "sleep-goal",
	Description: "set the daily sleep goal",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        HoursOption,
			Description: "hours",
			Required:    true,
			MinValue:    float64Ptr(0),
			MaxValue:    24,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        MinutesOption,
			Description: "minutes (Default: 0)",
			MinValue:    float64Ptr(0),
			MaxValue:    59,
		},
	},
}

var HealthCommand = discordgo.ApplicationCommand{
	Name:        "health",
	Description: "vaccination and milestone checklists",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        HealthVaccinesSubcommand,
			Description: "show the vaccination schedule",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        HealthMilestonesSubcommand,
			Description: "show the developmental milestones",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        HealthCheckSubcommand,
			Description: "mark a vaccine or milestone done, or undo it",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        IDOption,
					Description: "item id such as v4 or m7",
					Required:    true,
				},
			},
		},
	},
}

// Commands is the full set registered with Discord.
var Commands = []*discordgo.ApplicationCommand{
	&StartCommand,
	&PauseCommand,
	&SnoozeCommand,
	&StopCommand,
	&CancelCommand,
	&StatusCommand,
	&DetailsCommand,
	&EditStartCommand,
	&SleepCommand,
	&LogCommand,
	&EditCommand,
	&HistoryCommand,
	&DeleteCommand,
	&RemindersCommand,
	&ProfileCommand,
	&GrowthCommand,
	&GrowthHistoryCommand,
	&GrowthDeleteCommand,
	&StashCommand,
	&SummaryCommand,
	&SleepGoalCommand,
	&HealthCommand,
}
