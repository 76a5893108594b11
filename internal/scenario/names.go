package scenario

// ClassicRooms are the rooms a manor is furnished from.
var ClassicRooms = []string{
	"Ballroom", "Lounge", "Hall", "Study", "Library",
	"Billiard Room", "Conservatory", "Kitchen", "Dining Room",
}

var firstNames = []string{
	"Ada", "Agnes", "Albert", "Alma", "Arthur", "Beatrice", "Bernard", "Clara",
	"Cyril", "Daphne", "Desmond", "Dorothy", "Edgar", "Edith", "Felix", "Florence",
	"Gerald", "Gwen", "Harold", "Hazel", "Ivor", "Irene", "Jasper", "Judith",
	"Kenneth", "Lavinia", "Leonard", "Mabel", "Miles", "Nora", "Oswald", "Olive",
	"Percy", "Phyllis", "Quentin", "Rosa", "Rupert", "Sybil", "Theodore", "Ursula",
	"Victor", "Violet", "Walter", "Winifred",
}

var lastNames = []string{
	"Ashdown", "Blackwood", "Carrow", "Dunmore", "Ellery", "Fairfax", "Grayling",
	"Hartley", "Ingram", "Jessop", "Kingsley", "Lockwood", "Marlowe", "Norcross",
	"Oakes", "Pemberton", "Quayle", "Ravenscroft", "Sutton", "Thorne", "Underhill",
	"Vance", "Whitlock", "Yardley",
}
