package sqlite

import "strings"

// Column order matches the legacy MySQL tables so column-less INSERTs from a
// dump land in the right place. Dates stay TEXT; the dump holds values such
// as 0000-00-00 that no date parser accepts.
var legacyTables = []struct {
	name string
	ddl  string
}{
	{"anagrafica", `CREATE TABLE anagrafica (
    id INTEGER PRIMARY KEY,
    nome TEXT NOT NULL DEFAULT '0',
    detta TEXT NOT NULL DEFAULT '',
    cognome TEXT NOT NULL DEFAULT '0',
    sesso INTEGER NOT NULL DEFAULT 0,
    datanascita TEXT NOT NULL DEFAULT '1828-01-01',
    datamorte TEXT,
    cittanascita TEXT NOT NULL DEFAULT '0',
    provincianascita TEXT NOT NULL DEFAULT '0',
    nazionenascita TEXT NOT NULL DEFAULT '0',
    mail TEXT NOT NULL DEFAULT '0',
    tel TEXT NOT NULL DEFAULT '0',
    datainserimento TEXT DEFAULT CURRENT_TIMESTAMP,
    dataultimamodifica TEXT DEFAULT CURRENT_TIMESTAMP,
    idinseritore INTEGER NOT NULL DEFAULT 0,
    immagine INTEGER NOT NULL DEFAULT 0,
    cittaresidenza TEXT NOT NULL DEFAULT '',
    provinciaresidenza TEXT NOT NULL DEFAULT '',
    nazioneresidenza TEXT NOT NULL DEFAULT '',
    linkfb TEXT NOT NULL DEFAULT '',
    linktweter TEXT NOT NULL DEFAULT '',
    linkyoutube TEXT NOT NULL DEFAULT '',
    curriculum INTEGER NOT NULL DEFAULT 0,
    foto INTEGER NOT NULL DEFAULT 0,
    lifeextention INTEGER NOT NULL DEFAULT 0,
    crediti INTEGER NOT NULL DEFAULT 0,
    occupazione INTEGER NOT NULL DEFAULT 0,
    descrizioneoccupazione TEXT,
    cf TEXT NOT NULL DEFAULT '',
    titolodistudio TEXT NOT NULL DEFAULT '',
    causa_decesso TEXT,
    numeroaborti INTEGER NOT NULL DEFAULT 0
)`},
	{"genealogical_tree", `CREATE TABLE genealogical_tree (
    id INTEGER PRIMARY KEY,
    pid INTEGER NOT NULL,
    gttid INTEGER NOT NULL,
    payed_at TEXT,
    flag_active INTEGER NOT NULL DEFAULT 0,
    stripe_payment_intent_id TEXT,
    total TEXT
)`},
	{"genealogical_tree_person", `CREATE TABLE genealogical_tree_person (
    id INTEGER PRIMARY KEY,
    gtid INTEGER NOT NULL,
    pid INTEGER NOT NULL,
    trid INTEGER NOT NULL,
    position TEXT NOT NULL DEFAULT 'n/a',
    traid INTEGER NOT NULL
)`},
	{"genealogical_tree_template", `CREATE TABLE genealogical_tree_template (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    picture TEXT,
    template TEXT,
    cost TEXT
)`},
	{"genealogical_tree_template_item", `CREATE TABLE genealogical_tree_template_item (
    id INTEGER PRIMARY KEY,
    gttid INTEGER NOT NULL,
    max_persons INTEGER NOT NULL,
    position TEXT NOT NULL DEFAULT 'n/a',
    priority INTEGER NOT NULL DEFAULT 0,
    traid INTEGER NOT NULL
)`},
	{"citta", `CREATE TABLE citta (
    id INTEGER PRIMARY KEY,
    cod_istat TEXT NOT NULL,
    nome TEXT,
    provincia_id TEXT NOT NULL
)`},
}

// normalizeMySQLLiterals rewrites MySQL backslash escapes inside single
// quoted literals into their SQLite form. Everything outside single quotes is
// copied unchanged.
func normalizeMySQLLiterals(stmt string) string {
	if !strings.Contains(stmt, `\`) {
		return stmt
	}
	var b strings.Builder
	b.Grow(len(stmt))
	inString := false
	for i := 0; i < len(stmt); i++ {
		c := stmt[i]
		if !inString {
			if c == '\'' {
				inString = true
			}
			b.WriteByte(c)
			continue
		}
		switch c {
		case '\\':
			if i+1 >= len(stmt) {
				b.WriteByte(c)
				continue
			}
			i++
			switch stmt[i] {
			case '\'':
				b.WriteString("''")
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '0':
			case 'Z':
				b.WriteByte(0x1a)
			default:
				b.WriteByte(stmt[i])
			}
		case '\'':
			if i+1 < len(stmt) && stmt[i+1] == '\'' {
				b.WriteString("''")
				i++
				continue
			}
			inString = false
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
