package stihirus

// Named locations on the site's pages. Every lookup in this package goes
// through these so a markup change touches one file.
const (
	// profile page
	selProfileInfo        = ".avtorinfo"
	attrProfileUserId     = "data-userid"
	selProfileAnyUserId   = "[data-userid]"
	selProfileDisplayName = ".avtorinfo__name"
	selProfileTitle       = "h1"
	selProfileDescription = ".avtorinfo__userinfo"
	selProfileAvatar      = ".page_avatar_img"
	selProfileAvatarAlt   = ".avtorinfo img.avatar"
	selProfileHeader      = ".page_header_img"
	selStatsCard          = "#show_stat"
	selStatsBar           = ".progress-bar"
	attrStatsValue        = "aria-valuenow"
	selCollectionLinks    = "#show_sborniki a"
	selProfileFooterSmall = ".card-footer .small"

	// single poem page
	selPoem              = ".proizv"
	attrPoemId           = "data-proizvid"
	selPoemTitle         = ".proizv__title"
	selPoemText          = ".proizv__text"
	selPoemDate          = ".proizv__date"
	selPoemRubric        = ".proizv__razdel a"
	selPoemRubricText    = ".proizv__razdel"
	selPoemCollection    = ".proizv__sbornik"
	selPoemLikes         = ".proizv__likes"
	selPoemComments      = ".proizv__comments-count"
	selPoemImage         = ".proizv__background img"
	attrPoemBackground   = "data-background"
	selPoemCertificate   = ".proizv__certificate"
	attrPoemGifts        = "data-podarki"
	attrPoemUnique       = "data-text-unique"
	selPoemContest       = ".proizv__contest"
	attrPoemContestId    = "data-contest-id"
	selPoemHoliday       = ".proizv__holiday"
	attrPoemHolidayId    = "data-holiday-id"
	selPoemAuthor        = ".proizv__avtor"
	attrPoemAuthorId     = "data-userid"
	selPoemAuthorLink    = "a"
	selPoemAuthorLinkAlt = `a[href*="/avtor/"]`

	// homepage
	selHomeRecommended    = ".card-recomended"
	selHomeWeeklyRating   = ".card-week-rating"
	selHomeActive         = ".card-active-avtors"
	selHomeFriendCard     = ".friends-window__friend-card"
	selHomeFriendName     = ".friends-window__fname"
	selHomeBadge          = ".u-badge"
	selHomeAvatar         = ".avatarimg"
	selHomePromoPoems     = ".card-recomended-proizv .border-bottom"
	selHomePromoLink      = "span.link"
	attrHomePromoId       = "data-proizvid"
	selHomePromoAuthor    = ".small.text-right"
	selHomePromoCounter   = "span.text-nowrap.small"
	classHeartIcon        = "fa-heart"
	classHeartOutlineIcon = "fa-heart-o"
	classCommentsIcon     = "fa-comments-o"
)

// Upstream sentinel values.
const (
	sentinelNoAvatar       = "/img/profile/none.jpg"
	sentinelNoHeader       = "none_header"
	sentinelDefaultGift    = "proizv_like"
	sentinelNoCollection   = "не в сборнике"
	sentinelNoRubricName   = "Произведения без рубрики"
	markerLastVisit        = "Последний визит:"
	markerStatus           = "Статус:"
	markerPremium          = "Премиум доступ"
	placeholderTitle       = "***"
	apiStatusError         = "error"
	apiDeniedMessage       = "denied"
	apiDeniedMessageRu     = "доступ запрещен"
	endpointReadAuthorName = "pr_read_avtor"
	endpointFiltersName    = "pr_read_avtor_prozv_filter"
)
