package execute

// harnessSource is the Python shim that loads a candidate routine, invokes
// parse(pdf_path), and prints the result as a dataset envelope on stdout.
// Exit codes: 3 syntax error, 4 runtime error, 5 output not coercible to a
// dataset. The harness keeps stdout clean: candidate print() output is
// diverted to stderr while parse runs, so only the envelope reaches stdout.
const harnessSource = `import json
import sys


def to_columns(result):
    # dict of name -> list
    if isinstance(result, dict):
        items = list(result.items())
    # pandas DataFrame (or anything else exposing to_dict(orient="list"))
    elif hasattr(result, "to_dict"):
        items = list(result.to_dict(orient="list").items())
    # list of row dicts
    elif isinstance(result, list) and all(isinstance(r, dict) for r in result):
        names = []
        for r in result:
            for k in r:
                if k not in names:
                    names.append(k)
        items = [(n, [r.get(n) for r in result]) for n in names]
    else:
        raise TypeError("parse() must return a dict of columns, a DataFrame, or a list of row dicts, got %r" % type(result).__name__)

    columns = []
    for name, values in items:
        cells = []
        for v in values:
            if v is None:
                cells.append(None)
            elif isinstance(v, (int, float)):
                if v != v:  # NaN is treated as missing
                    cells.append(None)
                else:
                    cells.append(v)
            else:
                cells.append(str(v))
        columns.append({"name": str(name), "values": cells})
    return columns


def main():
    parser_path, document = sys.argv[1], sys.argv[2]
    with open(parser_path, encoding="utf-8") as f:
        source = f.read()

    try:
        code = compile(source, "parser.py", "exec")
    except SyntaxError:
        import traceback
        traceback.print_exc()
        sys.exit(3)

    namespace = {"__name__": "parser"}
    envelope_out = sys.stdout
    sys.stdout = sys.stderr  # candidate print() calls must not touch the envelope
    try:
        exec(code, namespace)
        parse = namespace.get("parse")
        if not callable(parse):
            print("candidate does not define parse(pdf_path)", file=sys.stderr)
            sys.exit(5)
        result = parse(document)
    except SystemExit:
        raise
    except BaseException:
        import traceback
        traceback.print_exc()
        sys.exit(4)
    finally:
        sys.stdout = envelope_out

    try:
        columns = to_columns(result)
    except TypeError as exc:
        print(str(exc), file=sys.stderr)
        sys.exit(5)

    json.dump({"columns": columns}, sys.stdout)


if __name__ == "__main__":
    main()
`
